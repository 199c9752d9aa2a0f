package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeReminder NotificationType = "reminder"
	NotificationTypeStatus   NotificationType = "status"
)

// Notification is one stored reminder notification. There is at most one
// per reminder id.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReminderID string             `bson:"reminder_id" json:"reminder_id"`
	ProcessID  string             `bson:"process_id" json:"process_id"`
	Title      string             `bson:"title" json:"title"`
	Message    string             `bson:"message" json:"message"`
	Subtitle   *string            `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Type       NotificationType   `bson:"type" json:"type"`
	TriggerAt  time.Time          `bson:"trigger_at" json:"trigger_at"`
	IsRead     bool               `bson:"is_read" json:"is_read"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	ReadAt     *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
}

// Event is what connected websocket clients receive.
type Event struct {
	Type      NotificationType `json:"type"`
	ProcessID string           `json:"process_id"`
	Payload   any              `json:"payload"`
}
