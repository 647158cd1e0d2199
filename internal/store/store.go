package store

import (
	"context"

	"github.com/abacreative/admin-services/internal/models"
)

// Backend names used for selection and metrics labels.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Persistence keys in the local key-value area. Each holds a JSON array of
// the corresponding entity kind.
const (
	KeyUsers              = "admin_users"
	KeyContactMessages    = "contact_messages"
	KeyJoinUsApplications = "join_us_applications"
)

// Store is the per-backend persistence capability. Both adapters return
// canonical entities; shape conversion is internal to the remote adapter.
// Reads from the remote adapter degrade to empty results on backend errors;
// writes always report failure to the caller.
type Store interface {
	Name() string

	Users(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, u models.User) error
	UserByCredentials(ctx context.Context, username, password string) (*models.User, error)

	ContactMessages(ctx context.Context) ([]models.ContactMessage, error)
	SaveContactMessage(ctx context.Context, m models.ContactMessage) error

	JoinUsApplications(ctx context.Context) ([]models.JoinUsApplication, error)
	SaveJoinUsApplication(ctx context.Context, a models.JoinUsApplication) error
}
