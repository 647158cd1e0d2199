package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abacreative/admin-services/internal/kv"
	"github.com/abacreative/admin-services/internal/models"
)

// DefaultAdmin is the account seeded into a fresh users collection so the
// back-office is reachable after first run. CreatedAt is stamped at seed
// time.
var DefaultAdmin = models.User{
	ID:           "admin-1",
	Username:     "admin",
	Password:     "Admin123",
	Role:         models.RoleAdmin,
	Name:         "Administrateur Principal",
	Email:        "admin@abacreativegroup.com",
	IsFirstLogin: true,
	IsActive:     true,
}

// LocalStore persists each collection as one JSON blob in the local
// key-value area. Upserts are last-write-wins: replace the entity with the
// matching id, else append, then reserialize the whole collection.
type LocalStore struct {
	kv  *kv.Store
	now func() time.Time
}

func NewLocalStore(area *kv.Store) *LocalStore {
	return &LocalStore{kv: area, now: time.Now}
}

func (s *LocalStore) Name() string { return BackendLocal }

// KV exposes the underlying key-value area for components that manage their
// own keys there (settings, auto-backup state).
func (s *LocalStore) KV() *kv.Store { return s.kv }

func readCollection[T any](s *LocalStore, key string) ([]T, error) {
	b, ok, err := s.kv.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

func writeCollection[T any](s *LocalStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(key, b)
}

// ensureSeeded initializes absent collections: exactly one default admin for
// users, empty arrays for the submission kinds.
func (s *LocalStore) ensureSeeded() error {
	if _, ok, err := s.kv.Get(KeyUsers); err != nil {
		return err
	} else if !ok {
		admin := DefaultAdmin
		admin.CreatedAt = s.now().UTC()
		if err := writeCollection(s, KeyUsers, []models.User{admin}); err != nil {
			return err
		}
	}
	for _, key := range []string{KeyContactMessages, KeyJoinUsApplications} {
		if _, ok, err := s.kv.Get(key); err != nil {
			return err
		} else if !ok {
			if err := s.kv.Set(key, []byte("[]")); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *LocalStore) Users(ctx context.Context) ([]models.User, error) {
	if err := s.ensureSeeded(); err != nil {
		return nil, err
	}
	return readCollection[models.User](s, KeyUsers)
}

func (s *LocalStore) SaveUser(ctx context.Context, u models.User) error {
	users, err := s.Users(ctx)
	if err != nil {
		return err
	}
	return writeCollection(s, KeyUsers, upsertByID(users, u, func(x models.User) string { return x.ID }))
}

// UserByCredentials matches username and password exactly. The active flag
// is the login service's concern on this path (the remote backend filters it
// server-side instead).
func (s *LocalStore) UserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username && users[i].Password == password {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *LocalStore) ContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	if err := s.ensureSeeded(); err != nil {
		return nil, err
	}
	return readCollection[models.ContactMessage](s, KeyContactMessages)
}

func (s *LocalStore) SaveContactMessage(ctx context.Context, m models.ContactMessage) error {
	msgs, err := s.ContactMessages(ctx)
	if err != nil {
		return err
	}
	return writeCollection(s, KeyContactMessages, upsertByID(msgs, m, func(x models.ContactMessage) string { return x.ID }))
}

func (s *LocalStore) JoinUsApplications(ctx context.Context) ([]models.JoinUsApplication, error) {
	if err := s.ensureSeeded(); err != nil {
		return nil, err
	}
	return readCollection[models.JoinUsApplication](s, KeyJoinUsApplications)
}

func (s *LocalStore) SaveJoinUsApplication(ctx context.Context, a models.JoinUsApplication) error {
	apps, err := s.JoinUsApplications(ctx)
	if err != nil {
		return err
	}
	return writeCollection(s, KeyJoinUsApplications, upsertByID(apps, a, func(x models.JoinUsApplication) string { return x.ID }))
}

// ReplaceAll overwrites the three collections wholesale. Restore uses this
// to rewrite the local baseline without going through the selector.
func (s *LocalStore) ReplaceAll(users []models.User, msgs []models.ContactMessage, apps []models.JoinUsApplication) error {
	if err := writeCollection(s, KeyUsers, users); err != nil {
		return err
	}
	if err := writeCollection(s, KeyContactMessages, msgs); err != nil {
		return err
	}
	return writeCollection(s, KeyJoinUsApplications, apps)
}

func upsertByID[T any](items []T, item T, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}
