package models

import "time"

// Remote row shapes. The hosted backend stores the same entities with
// snake_case field names; converting between the two representations is a
// field-for-field rename and nothing else, so FromRow(ToRow(e)) == e for
// every valid entity.

// UserRow is the remote representation of User.
type UserRow struct {
	ID           string     `bson:"id" json:"id"`
	Username     string     `bson:"username" json:"username"`
	Password     string     `bson:"password" json:"password"`
	Role         string     `bson:"role" json:"role"`
	Name         string     `bson:"name" json:"name"`
	Email        string     `bson:"email" json:"email"`
	IsFirstLogin bool       `bson:"is_first_login" json:"is_first_login"`
	IsActive     bool       `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	LastLogin    *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
}

// ContactMessageRow is the remote representation of ContactMessage.
type ContactMessageRow struct {
	ID          string     `bson:"id" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Email       string     `bson:"email" json:"email"`
	Subject     string     `bson:"subject" json:"subject"`
	Message     string     `bson:"message" json:"message"`
	Status      string     `bson:"status" json:"status"`
	SubmittedAt time.Time  `bson:"submitted_at" json:"submitted_at"`
	ProcessedAt *time.Time `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
	ProcessedBy string     `bson:"processed_by,omitempty" json:"processed_by,omitempty"`
	Notes       string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// JoinUsApplicationRow is the remote representation of JoinUsApplication.
type JoinUsApplicationRow struct {
	ID           string     `bson:"id" json:"id"`
	Name         string     `bson:"name" json:"name"`
	Email        string     `bson:"email" json:"email"`
	Phone        string     `bson:"phone" json:"phone"`
	Domain       string     `bson:"domain" json:"domain"`
	Presentation string     `bson:"presentation" json:"presentation"`
	Portfolio    string     `bson:"portfolio,omitempty" json:"portfolio,omitempty"`
	Status       string     `bson:"status" json:"status"`
	SubmittedAt  time.Time  `bson:"submitted_at" json:"submitted_at"`
	ProcessedAt  *time.Time `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
	ProcessedBy  string     `bson:"processed_by,omitempty" json:"processed_by,omitempty"`
	Notes        string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

func UserFromRow(r UserRow) User {
	return User{
		ID:           r.ID,
		Username:     r.Username,
		Password:     r.Password,
		Role:         r.Role,
		Name:         r.Name,
		Email:        r.Email,
		IsFirstLogin: r.IsFirstLogin,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		LastLogin:    r.LastLogin,
	}
}

func UserToRow(u User) UserRow {
	return UserRow{
		ID:           u.ID,
		Username:     u.Username,
		Password:     u.Password,
		Role:         u.Role,
		Name:         u.Name,
		Email:        u.Email,
		IsFirstLogin: u.IsFirstLogin,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}

func ContactMessageFromRow(r ContactMessageRow) ContactMessage {
	return ContactMessage{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Subject:     r.Subject,
		Message:     r.Message,
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt,
		ProcessedAt: r.ProcessedAt,
		ProcessedBy: r.ProcessedBy,
		Notes:       r.Notes,
	}
}

func ContactMessageToRow(m ContactMessage) ContactMessageRow {
	return ContactMessageRow{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Subject:     m.Subject,
		Message:     m.Message,
		Status:      m.Status,
		SubmittedAt: m.SubmittedAt,
		ProcessedAt: m.ProcessedAt,
		ProcessedBy: m.ProcessedBy,
		Notes:       m.Notes,
	}
}

func JoinUsApplicationFromRow(r JoinUsApplicationRow) JoinUsApplication {
	return JoinUsApplication{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Domain:       r.Domain,
		Presentation: r.Presentation,
		Portfolio:    r.Portfolio,
		Status:       r.Status,
		SubmittedAt:  r.SubmittedAt,
		ProcessedAt:  r.ProcessedAt,
		ProcessedBy:  r.ProcessedBy,
		Notes:        r.Notes,
	}
}

func JoinUsApplicationToRow(a JoinUsApplication) JoinUsApplicationRow {
	return JoinUsApplicationRow{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		Domain:       a.Domain,
		Presentation: a.Presentation,
		Portfolio:    a.Portfolio,
		Status:       a.Status,
		SubmittedAt:  a.SubmittedAt,
		ProcessedAt:  a.ProcessedAt,
		ProcessedBy:  a.ProcessedBy,
		Notes:        a.Notes,
	}
}
