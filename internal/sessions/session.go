package sessions

import "time"

// Session is a persistent refresh session for a back-office account.
type Session struct {
	ID           string    `json:"id,omitempty"`
	RefreshToken string    `json:"refreshToken"`
	UserID       string    `json:"userId"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}
