package triage

import (
	"context"
	"errors"
	"time"

	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/internal/store"
)

var (
	ErrNotFound      = errors.New("submission not found")
	ErrUnknownStatus = errors.New("unknown workflow status")
)

// Service applies workflow-state transitions to submitted records. Leaving
// "pending" stamps the audit fields; returning to it clears them, so
// processedAt/processedBy are present exactly when status != pending.
type Service struct {
	storage *store.Facade
	now     func() time.Time
}

func NewService(storage *store.Facade) *Service {
	return &Service{storage: storage, now: time.Now}
}

func validStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusProcessed, models.StatusRejected:
		return true
	}
	return false
}

// SetContactStatus transitions a contact message and persists it.
func (s *Service) SetContactStatus(ctx context.Context, id, status, processedBy, notes string) (*models.ContactMessage, error) {
	if !validStatus(status) {
		return nil, ErrUnknownStatus
	}
	msgs, err := s.storage.GetContactMessages(ctx)
	if err != nil {
		return nil, err
	}
	for i := range msgs {
		if msgs[i].ID != id {
			continue
		}
		m := msgs[i]
		m.Status = status
		if status == models.StatusPending {
			m.ProcessedAt = nil
			m.ProcessedBy = ""
			m.Notes = ""
		} else {
			at := s.now().UTC()
			m.ProcessedAt = &at
			m.ProcessedBy = processedBy
			m.Notes = notes
		}
		if err := s.storage.SaveContactMessage(ctx, m); err != nil {
			return nil, err
		}
		return &m, nil
	}
	return nil, ErrNotFound
}

// SetApplicationStatus transitions a join-us application and persists it.
func (s *Service) SetApplicationStatus(ctx context.Context, id, status, processedBy, notes string) (*models.JoinUsApplication, error) {
	if !validStatus(status) {
		return nil, ErrUnknownStatus
	}
	apps, err := s.storage.GetJoinUsApplications(ctx)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i].ID != id {
			continue
		}
		a := apps[i]
		a.Status = status
		if status == models.StatusPending {
			a.ProcessedAt = nil
			a.ProcessedBy = ""
			a.Notes = ""
		} else {
			at := s.now().UTC()
			a.ProcessedAt = &at
			a.ProcessedBy = processedBy
			a.Notes = notes
		}
		if err := s.storage.SaveJoinUsApplication(ctx, a); err != nil {
			return nil, err
		}
		return &a, nil
	}
	return nil, ErrNotFound
}
