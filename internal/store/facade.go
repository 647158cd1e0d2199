package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/pkg/metrics"
)

// Facade is the storage surface the rest of the application consumes. Every
// operation resolves its backend through the selector first.
type Facade struct {
	sel *Selector
	now func() time.Time
}

func NewFacade(sel *Selector) *Facade {
	return &Facade{sel: sel, now: time.Now}
}

// LocalStore returns the local adapter for selector-bypassing callers.
func (f *Facade) LocalStore() Store { return f.sel.Local() }

func (f *Facade) resolve(ctx context.Context, op string) Store {
	st := f.sel.Resolve(ctx)
	metrics.StorageOps.WithLabelValues(op, st.Name()).Inc()
	return st
}

// GenerateUserID returns a fresh random identifier.
func (f *Facade) GenerateUserID() string { return uuid.NewString() }

func (f *Facade) GetStoredUsers(ctx context.Context) ([]models.User, error) {
	return f.resolve(ctx, "get_users").Users(ctx)
}

func (f *Facade) SaveUser(ctx context.Context, u models.User) error {
	return f.resolve(ctx, "save_user").SaveUser(ctx, u)
}

func (f *Facade) GetUserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	return f.resolve(ctx, "credentials").UserByCredentials(ctx, username, password)
}

func (f *Facade) GetContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	return f.resolve(ctx, "get_contacts").ContactMessages(ctx)
}

func (f *Facade) SaveContactMessage(ctx context.Context, m models.ContactMessage) error {
	return f.resolve(ctx, "save_contact").SaveContactMessage(ctx, m)
}

// AddContactMessage stamps identity, initial workflow state and submission
// time, then persists the new message.
func (f *Facade) AddContactMessage(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	m.ID = uuid.NewString()
	m.Status = models.StatusPending
	m.SubmittedAt = f.now().UTC()
	m.ProcessedAt = nil
	m.ProcessedBy = ""
	if err := f.SaveContactMessage(ctx, m); err != nil {
		return models.ContactMessage{}, err
	}
	return m, nil
}

func (f *Facade) GetJoinUsApplications(ctx context.Context) ([]models.JoinUsApplication, error) {
	return f.resolve(ctx, "get_applications").JoinUsApplications(ctx)
}

func (f *Facade) SaveJoinUsApplication(ctx context.Context, a models.JoinUsApplication) error {
	return f.resolve(ctx, "save_application").SaveJoinUsApplication(ctx, a)
}

func (f *Facade) AddJoinUsApplication(ctx context.Context, a models.JoinUsApplication) (models.JoinUsApplication, error) {
	a.ID = uuid.NewString()
	a.Status = models.StatusPending
	a.SubmittedAt = f.now().UTC()
	a.ProcessedAt = nil
	a.ProcessedBy = ""
	if err := f.SaveJoinUsApplication(ctx, a); err != nil {
		return models.JoinUsApplication{}, err
	}
	return a, nil
}

// GetDashboardStats derives the dashboard view from all three collections.
// The recent-activity feed takes the last 5 stored records of each
// submission collection, tags them, merges, sorts by timestamp descending
// and caps at 10 entries. Recomputed on every call, no caching.
func (f *Facade) GetDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	contacts, err := f.GetContactMessages(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	apps, err := f.GetJoinUsApplications(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	users, err := f.GetStoredUsers(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}

	activity := make([]models.Activity, 0, 10)
	for _, c := range lastN(contacts, 5) {
		activity = append(activity, models.Activity{
			ID:          c.ID,
			Type:        "contact",
			Description: fmt.Sprintf("Nouveau message de %s", c.Name),
			Timestamp:   c.SubmittedAt,
		})
	}
	for _, a := range lastN(apps, 5) {
		activity = append(activity, models.Activity{
			ID:          a.ID,
			Type:        "join_us",
			Description: fmt.Sprintf("Nouvelle candidature de %s", a.Name),
			Timestamp:   a.SubmittedAt,
		})
	}
	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Timestamp.After(activity[j].Timestamp)
	})
	if len(activity) > 10 {
		activity = activity[:10]
	}

	return models.DashboardStats{
		TotalContactMessages:      len(contacts),
		TotalJoinUsApplications:   len(apps),
		PendingContactMessages:    countPendingContacts(contacts),
		PendingJoinUsApplications: countPendingApplications(apps),
		TotalUsers:                len(users),
		RecentActivity:            activity,
	}, nil
}

func lastN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

func countPendingContacts(msgs []models.ContactMessage) int {
	n := 0
	for _, m := range msgs {
		if m.Status == models.StatusPending {
			n++
		}
	}
	return n
}

func countPendingApplications(apps []models.JoinUsApplication) int {
	n := 0
	for _, a := range apps {
		if a.Status == models.StatusPending {
			n++
		}
	}
	return n
}
