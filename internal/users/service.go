package users

import (
	"context"
	"errors"
	"time"

	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/internal/store"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")
	ErrInvalidRole   = errors.New("unknown role")
)

// User-facing failure reasons returned by Login. These are not errors: bad
// credentials are an expected outcome, not a fault.
const (
	ReasonBadCredentials   = "Nom d'utilisateur ou mot de passe incorrect"
	ReasonAccountSuspended = "Compte suspendu. Contactez l'administrateur."
)

// LoginResult is the structured outcome of an authentication attempt.
type LoginResult struct {
	User                   *models.User
	RequiresPasswordChange bool
	FailureReason          string
}

func (r *LoginResult) Success() bool { return r.User != nil }

// Service encapsulates back-office account logic over the storage facade.
type Service struct {
	storage *store.Facade
	now     func() time.Time
}

func NewService(storage *store.Facade) *Service {
	return &Service{storage: storage, now: time.Now}
}

// Login checks credentials and stamps lastLogin on success. Inactive
// accounts and bad credentials both produce a structured failure, never an
// error; only a storage write fault is returned as an error.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.storage.GetUserByCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return &LoginResult{FailureReason: ReasonBadCredentials}, nil
	}
	if !u.IsActive {
		return &LoginResult{FailureReason: ReasonAccountSuspended}, nil
	}

	last := s.now().UTC()
	u.LastLogin = &last
	if err := s.storage.SaveUser(ctx, *u); err != nil {
		return nil, err
	}
	return &LoginResult{User: u, RequiresPasswordChange: u.IsFirstLogin}, nil
}

// ChangePassword replaces the password and clears the first-login flag.
func (s *Service) ChangePassword(ctx context.Context, userID, newPassword string) (*models.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Password = newPassword
	u.IsFirstLogin = false
	if err := s.storage.SaveUser(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	users, err := s.storage.GetStoredUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.storage.GetStoredUsers(ctx)
}

// Create adds a new account. Username and email must be unique within the
// collection; the id is generated when absent.
func (s *Service) Create(ctx context.Context, u models.User) (*models.User, error) {
	if _, ok := models.RolePermissions[u.Role]; !ok {
		return nil, ErrInvalidRole
	}
	if err := s.checkUnique(ctx, u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = s.storage.GenerateUserID()
	}
	u.CreatedAt = s.now().UTC()
	u.IsFirstLogin = true
	u.IsActive = true
	u.LastLogin = nil
	if err := s.storage.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update edits display fields and role of an existing account.
func (s *Service) Update(ctx context.Context, u models.User) (*models.User, error) {
	existing, err := s.GetByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if _, ok := models.RolePermissions[u.Role]; !ok {
		return nil, ErrInvalidRole
	}
	if err := s.checkUnique(ctx, u); err != nil {
		return nil, err
	}
	existing.Username = u.Username
	existing.Name = u.Name
	existing.Email = u.Email
	existing.Role = u.Role
	if err := s.storage.SaveUser(ctx, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// SetActive toggles login access. Accounts are never deleted, only
// deactivated.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsActive = active
	if err := s.storage.SaveUser(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) checkUnique(ctx context.Context, u models.User) error {
	users, err := s.storage.GetStoredUsers(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == u.ID {
			continue
		}
		if users[i].Username == u.Username {
			return ErrUsernameTaken
		}
		if users[i].Email == u.Email {
			return ErrEmailTaken
		}
	}
	return nil
}
