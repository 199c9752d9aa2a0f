package email

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Language string

const (
	LanguageGerman  Language = "de"
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageSpanish Language = "es"
	LanguageItalian Language = "it"
)

// ParseLanguage falls back to German for empty or unknown codes.
func ParseLanguage(s string) Language {
	switch l := Language(s); l {
	case LanguageGerman, LanguageEnglish, LanguageFrench, LanguageSpanish, LanguageItalian:
		return l
	default:
		return LanguageGerman
	}
}

type DraftStatus string

const (
	DraftReady       DraftStatus = "ready"
	DraftUnavailable DraftStatus = "unavailable"
	DraftFailed      DraftStatus = "failed"
)

// DataUnavailableBody is the body of every draft composed without the
// subject or counterparty reference data.
const DataUnavailableBody = "Kunden- oder Vereinsdaten nicht verfügbar."

type EmailDraft struct {
	Subject  string      `json:"subject"`
	Body     string      `json:"body"`
	Language Language    `json:"language"`
	Status   DraftStatus `json:"status"`
}

type EmailStatus string

const (
	EmailQueued EmailStatus = "queued"
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// Email is a sent or attempted message in the emails collection.
type Email struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProcessID primitive.ObjectID `bson:"processId" json:"processId"`
	From      string             `bson:"from" json:"from"`
	To        []string           `bson:"to" json:"to"`
	Subject   string             `bson:"subject" json:"subject"`
	TextBody  string             `bson:"textBody" json:"textBody"`
	Status    EmailStatus        `bson:"status" json:"status"`
	ErrorMsg  string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	SentAt    *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
}
