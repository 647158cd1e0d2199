package backup

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abacreative/admin-services/internal/kv"
	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/internal/store"
)

func newService(t *testing.T) (*Service, *store.Facade, *store.LocalStore) {
	t.Helper()
	area, err := kv.Open(t.TempDir())
	require.NoError(t, err)
	local := store.NewLocalStore(area)
	facade := store.NewFacade(store.NewSelector(local, nil, nil, 0))
	return NewService(facade, local), facade, local
}

func seed(t *testing.T, f *store.Facade) {
	t.Helper()
	ctx := context.Background()
	_, err := f.AddContactMessage(ctx, models.ContactMessage{Name: "Alice", Email: "a@example.com", Subject: "S", Message: "M\nmultiline"})
	require.NoError(t, err)
	_, err = f.AddJoinUsApplication(ctx, models.JoinUsApplication{Name: "Bob", Email: "b@example.com", Phone: "+331", Domain: "music", Presentation: "P"})
	require.NoError(t, err)
}

func TestCreateFullBackup(t *testing.T) {
	svc, facade, _ := newService(t)
	seed(t, facade)

	doc, err := svc.CreateFullBackup(context.Background())
	require.NoError(t, err)
	require.Equal(t, Version, doc.Version)
	require.Len(t, doc.Data.Users, 1)
	require.Len(t, doc.Data.ContactMessages, 1)
	require.Len(t, doc.Data.JoinUsApplications, 1)
	require.Equal(t, 3, doc.Metadata.TotalRecords)
	require.True(t, strings.HasSuffix(doc.Metadata.BackupSize, " KB"))
	require.Equal(t, 1, doc.Data.Analytics.ContactStats.Pending)
	require.Equal(t, "music", doc.Data.Analytics.Highlights.MostActiveDomain)
}

func TestRestoreRoundTrip(t *testing.T) {
	svc, facade, local := newService(t)
	seed(t, facade)
	ctx := context.Background()

	before := func() [3]string {
		var out [3]string
		for i, get := range []func() (any, error){
			func() (any, error) { return local.Users(ctx) },
			func() (any, error) { return local.ContactMessages(ctx) },
			func() (any, error) { return local.JoinUsApplications(ctx) },
		} {
			v, err := get()
			require.NoError(t, err)
			b, err := json.Marshal(v)
			require.NoError(t, err)
			out[i] = string(b)
		}
		return out
	}

	snapshot := before()

	doc, err := svc.CreateFullBackup(ctx)
	require.NoError(t, err)

	// round-trip through serialization, as a real import would
	raw, err := ExportJSON(doc)
	require.NoError(t, err)
	parsed, err := Parse(raw)
	require.NoError(t, err)

	require.NoError(t, svc.Restore(parsed))
	require.Equal(t, snapshot, before())
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	_, err := Parse([]byte(`{"version":"1.0.0"}`))
	require.ErrorIs(t, err, ErrInvalidBackup)

	_, err = Parse([]byte(`{"data":{"users":[]}}`))
	require.ErrorIs(t, err, ErrInvalidBackup)

	_, err = Parse([]byte(`not json`))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidBackup)

	doc, err := Parse([]byte(`{"version":"1.0.0","data":{"users":[],"contactMessages":[],"joinUsApplications":[]}}`))
	require.NoError(t, err)
	require.Equal(t, "1.0.0", doc.Version)
}

func TestRestoreDoesNotTouchStoreOnNilDocument(t *testing.T) {
	svc, facade, local := newService(t)
	seed(t, facade)
	ctx := context.Background()

	require.ErrorIs(t, svc.Restore(nil), ErrInvalidBackup)

	msgs, err := local.ContactMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestExportCSVSections(t *testing.T) {
	svc, facade, _ := newService(t)
	seed(t, facade)

	doc, err := svc.CreateFullBackup(context.Background())
	require.NoError(t, err)

	csv := string(ExportCSV(doc))
	require.Contains(t, csv, "=== USERS ===")
	require.Contains(t, csv, "=== CONTACT MESSAGES ===")
	require.Contains(t, csv, "=== JOIN US APPLICATIONS ===")
	require.Contains(t, csv, "ID,Username,Name,Email,Role,Active,Created,Last Login")
	// newlines inside messages are flattened to spaces
	require.Contains(t, csv, `"M multiline"`)
	// seeded admin has never logged in
	require.Contains(t, csv, `"Never"`)
}

func TestAutoBackupSweep(t *testing.T) {
	svc, facade, local := newService(t)
	seed(t, facade)
	ctx := context.Background()

	// disabled: sweep is a no-op
	took, err := svc.Sweep(ctx)
	require.NoError(t, err)
	require.False(t, took)

	require.NoError(t, svc.SetAutoBackupEnabled(ctx, true))

	// enabling swept immediately
	last, err := svc.LastAutoBackup()
	require.NoError(t, err)
	require.NotNil(t, last)
	require.Equal(t, 3, last.Metadata.TotalRecords)

	// a fresh snapshot exists, so another sweep declines
	took, err = svc.Sweep(ctx)
	require.NoError(t, err)
	require.False(t, took)

	// age the stamp past the interval
	old := time.Now().UTC().Add(-8 * 24 * time.Hour).Format(time.RFC3339)
	require.NoError(t, local.KV().Set(KeyLastAutoBackup, []byte(old)))
	took, err = svc.Sweep(ctx)
	require.NoError(t, err)
	require.True(t, took)

	setting, err := svc.AutoBackupSetting()
	require.NoError(t, err)
	require.Equal(t, "true", setting.Value)
	require.False(t, setting.UpdatedAt.IsZero())
}
