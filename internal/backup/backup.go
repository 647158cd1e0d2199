package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abacreative/admin-services/internal/analytics"
	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/internal/store"
)

// Version tags the backup document schema.
const Version = "1.0.0"

const generatedBy = "ABA Creative Group Admin System"

// ErrInvalidBackup is returned for documents missing the required top-level
// shape (version + data).
var ErrInvalidBackup = errors.New("invalid backup format: missing version or data")

// Document is the self-contained exportable snapshot of all collections.
type Document struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      Data      `json:"data"`
	Metadata  Metadata  `json:"metadata"`
}

type Data struct {
	Users              []models.User              `json:"users"`
	ContactMessages    []models.ContactMessage    `json:"contactMessages"`
	JoinUsApplications []models.JoinUsApplication `json:"joinUsApplications"`
	Analytics          analytics.Snapshot         `json:"analytics"`
}

type Metadata struct {
	TotalRecords int    `json:"totalRecords"`
	BackupSize   string `json:"backupSize"`
	GeneratedBy  string `json:"generatedBy"`
}

// Service creates, exports and restores backups. Reads go through the
// storage facade (whichever backend is live); restore always rewrites the
// local store directly.
type Service struct {
	facade *store.Facade
	local  *store.LocalStore
	now    func() time.Time
}

func NewService(facade *store.Facade, local *store.LocalStore) *Service {
	return &Service{facade: facade, local: local, now: time.Now}
}

// CreateFullBackup bundles all collections plus a derived analytics snapshot
// and computed metadata.
func (s *Service) CreateFullBackup(ctx context.Context) (*Document, error) {
	users, err := s.facade.GetStoredUsers(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := s.facade.GetContactMessages(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.facade.GetJoinUsApplications(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	if contacts == nil {
		contacts = []models.ContactMessage{}
	}
	if apps == nil {
		apps = []models.JoinUsApplication{}
	}

	doc := &Document{
		Version:   Version,
		Timestamp: s.now().UTC(),
		Data: Data{
			Users:              users,
			ContactMessages:    contacts,
			JoinUsApplications: apps,
			Analytics:          analytics.Compute(contacts, apps, s.now()),
		},
		Metadata: Metadata{
			TotalRecords: len(users) + len(contacts) + len(apps),
			GeneratedBy:  generatedBy,
		},
	}

	// approximate size of the serialized document
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	kb := math.Round(float64(len(b))/1024*100) / 100
	doc.Metadata.BackupSize = fmt.Sprintf("%g KB", kb)
	return doc, nil
}

// Parse decodes raw bytes and validates the required top-level shape,
// failing fast on malformed documents.
func Parse(raw []byte) (*Document, error) {
	// detect a literally-missing "data" key, which decodes to a zero struct
	var probe struct {
		Version *string          `json:"version"`
		Data    *json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("invalid backup document: %w", err)
	}
	if probe.Version == nil || *probe.Version == "" || probe.Data == nil {
		return nil, ErrInvalidBackup
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid backup document: %w", err)
	}
	return &doc, nil
}

// Restore overwrites the three local collections wholesale from doc,
// bypassing the backend selector. Malformed documents are rejected before
// any write happens.
func (s *Service) Restore(doc *Document) error {
	if doc == nil || doc.Version == "" {
		return ErrInvalidBackup
	}
	return s.local.ReplaceAll(doc.Data.Users, doc.Data.ContactMessages, doc.Data.JoinUsApplications)
}
