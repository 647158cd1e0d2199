package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abacreative/admin-services/internal/models"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	u := &models.User{ID: "admin-1", Username: "admin", Role: models.RoleAdmin}
	raw, err := GenerateAccessToken("secret-123", u, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := ParseAccessToken("secret-123", raw)
	require.NoError(t, err)
	require.Equal(t, "admin-1", claims.UserID)
	require.Equal(t, "admin", claims.Username)
	require.Equal(t, models.RoleAdmin, claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	u := &models.User{ID: "admin-1", Username: "admin", Role: models.RoleAdmin}
	raw, err := GenerateAccessToken("secret-123", u, time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	u := &models.User{ID: "admin-1", Username: "admin", Role: models.RoleAdmin}
	raw, err := GenerateAccessToken("secret-123", u, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret-123", raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseAccessToken("secret-123", "not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
