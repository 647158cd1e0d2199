package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abacreative/admin-services/internal/models"
)

var ErrInvalidToken = errors.New("invalid access token")

// Claims carried by an access token.
type Claims struct {
	UserID   string
	Username string
	Role     string
}

// GenerateAccessToken creates a signed JWT access token for the account.
func GenerateAccessToken(secret string, u *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
		"role":     u.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// ParseAccessToken verifies the signature and expiry and returns the claims.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	username, _ := mc["username"].(string)
	role, _ := mc["role"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: sub, Username: username, Role: role}, nil
}
