package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUserRowRoundTrip(t *testing.T) {
	last := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	u := User{
		ID:           "user-1",
		Username:     "cmanager",
		Password:     "s3cret",
		Role:         RoleContactManager,
		Name:         "C. Manager",
		Email:        "cm@example.com",
		IsFirstLogin: true,
		IsActive:     true,
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		LastLogin:    &last,
	}
	require.Equal(t, u, UserFromRow(UserToRow(u)))

	// optional lastLogin absent
	u.LastLogin = nil
	require.Equal(t, u, UserFromRow(UserToRow(u)))
}

func TestContactMessageRowRoundTrip(t *testing.T) {
	proc := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	m := ContactMessage{
		ID:          "contact-1",
		Name:        "Alice",
		Email:       "alice@example.com",
		Subject:     "Hello",
		Message:     "line one\nline two",
		Status:      StatusProcessed,
		SubmittedAt: time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC),
		ProcessedAt: &proc,
		ProcessedBy: "admin",
		Notes:       "handled",
	}
	require.Equal(t, m, ContactMessageFromRow(ContactMessageToRow(m)))

	pending := ContactMessage{
		ID:          "contact-2",
		Name:        "Bob",
		Email:       "bob@example.com",
		Subject:     "Hi",
		Message:     "short",
		Status:      StatusPending,
		SubmittedAt: time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC),
	}
	require.Equal(t, pending, ContactMessageFromRow(ContactMessageToRow(pending)))
}

func TestJoinUsApplicationRowRoundTrip(t *testing.T) {
	a := JoinUsApplication{
		ID:           "joinus-1",
		Name:         "Carol",
		Email:        "carol@example.com",
		Phone:        "+33123456789",
		Domain:       "music",
		Presentation: "I sing.",
		Portfolio:    "https://example.com/carol",
		Status:       StatusPending,
		SubmittedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.Equal(t, a, JoinUsApplicationFromRow(JoinUsApplicationToRow(a)))
}

func TestHasPermission(t *testing.T) {
	require.True(t, HasPermission(RoleAdmin, "manage_contacts"))
	require.True(t, HasPermission(RoleContactManager, "view_contacts"))
	require.False(t, HasPermission(RoleContactManager, "manage_recruitment"))
	require.False(t, HasPermission("unknown", "view_contacts"))
}
