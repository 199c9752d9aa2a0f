package email

import (
	"sync"

	"go-transfer/internal/common/errs"
)

// DraftSession keeps the draft of the most recently issued compose request.
// Each request takes a ticket from Begin; a completion holding an older
// ticket than the newest one is rejected with errs.ErrSuperseded.
type DraftSession struct {
	mu     sync.Mutex
	issued uint64
	draft  *EmailDraft
}

func (s *DraftSession) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

func (s *DraftSession) Complete(ticket uint64, d EmailDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.issued {
		return errs.ErrSuperseded
	}
	s.draft = &d
	return nil
}

func (s *DraftSession) Current() (EmailDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return EmailDraft{}, false
	}
	return *s.draft, true
}

// sessions holds one DraftSession per process step.
type sessions struct {
	mu   sync.Mutex
	byID map[string]*DraftSession
}

func (s *sessions) get(key string) *DraftSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byID == nil {
		s.byID = make(map[string]*DraftSession)
	}
	ds, ok := s.byID[key]
	if !ok {
		ds = &DraftSession{}
		s.byID[key] = ds
	}
	return ds
}
