package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abacreative/admin-services/internal/models"
)

// fakeRemote counts operations so tests can assert no network path was taken.
type fakeRemote struct {
	calls int
}

func (f *fakeRemote) Name() string { return BackendRemote }

func (f *fakeRemote) Users(ctx context.Context) ([]models.User, error) {
	f.calls++
	return []models.User{{ID: "remote-user"}}, nil
}

func (f *fakeRemote) SaveUser(ctx context.Context, u models.User) error { f.calls++; return nil }

func (f *fakeRemote) UserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	f.calls++
	return nil, nil
}

func (f *fakeRemote) ContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	f.calls++
	return nil, nil
}

func (f *fakeRemote) SaveContactMessage(ctx context.Context, m models.ContactMessage) error {
	f.calls++
	return nil
}

func (f *fakeRemote) JoinUsApplications(ctx context.Context) ([]models.JoinUsApplication, error) {
	f.calls++
	return nil, nil
}

func (f *fakeRemote) SaveJoinUsApplication(ctx context.Context, a models.JoinUsApplication) error {
	f.calls++
	return nil
}

func TestSelectorWithoutRemoteAlwaysLocal(t *testing.T) {
	local := newLocal(t)
	sel := NewSelector(local, nil, nil, 0)

	st := sel.Resolve(context.Background())
	require.Equal(t, BackendLocal, st.Name())
}

func TestSelectorProbeFailureFallsBackToLocal(t *testing.T) {
	local := newLocal(t)
	remote := &fakeRemote{}
	probeErr := errors.New("connection refused")
	sel := NewSelector(local, remote, func(ctx context.Context) error { return probeErr }, time.Second)

	st := sel.Resolve(context.Background())
	require.Equal(t, BackendLocal, st.Name())

	users, err := st.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "admin", users[0].Username)
	require.Zero(t, remote.calls)
}

func TestSelectorProbeSuccessPicksRemote(t *testing.T) {
	local := newLocal(t)
	remote := &fakeRemote{}
	sel := NewSelector(local, remote, func(ctx context.Context) error { return nil }, time.Second)

	st := sel.Resolve(context.Background())
	require.Equal(t, BackendRemote, st.Name())
}

func TestSelectorReprobesEveryCall(t *testing.T) {
	local := newLocal(t)
	remote := &fakeRemote{}
	healthy := true
	sel := NewSelector(local, remote, func(ctx context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("down")
	}, time.Second)

	require.Equal(t, BackendRemote, sel.Resolve(context.Background()).Name())
	healthy = false
	require.Equal(t, BackendLocal, sel.Resolve(context.Background()).Name())
	healthy = true
	require.Equal(t, BackendRemote, sel.Resolve(context.Background()).Name())
}
