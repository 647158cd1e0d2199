package models

import "time"

// Roles for back-office accounts.
const (
	RoleAdmin              = "admin"
	RoleContactManager     = "contact_manager"
	RoleRecruitmentManager = "recruitment_manager"
)

// Workflow states shared by contact messages and join-us applications.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusRejected  = "rejected"
)

// RolePermissions maps each role to the permissions it grants. The admin
// role carries the wildcard "all".
var RolePermissions = map[string][]string{
	RoleAdmin:              {"all"},
	RoleContactManager:     {"view_contacts", "manage_contacts"},
	RoleRecruitmentManager: {"view_recruitment", "manage_recruitment"},
}

// HasPermission reports whether the given role grants perm.
func HasPermission(role, perm string) bool {
	for _, p := range RolePermissions[role] {
		if p == "all" || p == perm {
			return true
		}
	}
	return false
}

// User is a back-office account. Username and email are unique within the
// collection. Accounts are deactivated, never deleted.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Password     string     `json:"password"`
	Role         string     `json:"role"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	IsFirstLogin bool       `json:"isFirstLogin"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// ContactMessage is a public contact-form submission. ProcessedAt and
// ProcessedBy are set only when status leaves "pending".
type ContactMessage struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submittedAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	ProcessedBy string     `json:"processedBy,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// JoinUsApplication is a public talent application. Same workflow and audit
// shape as ContactMessage.
type JoinUsApplication struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Domain       string     `json:"domain"`
	Presentation string     `json:"presentation"`
	Portfolio    string     `json:"portfolio,omitempty"`
	Status       string     `json:"status"`
	SubmittedAt  time.Time  `json:"submittedAt"`
	ProcessedAt  *time.Time `json:"processedAt,omitempty"`
	ProcessedBy  string     `json:"processedBy,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// Setting is an internal key/value pair (feature flags, last-run stamps).
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Activity is one entry of the dashboard recent-activity feed.
type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // "contact" | "join_us"
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// DashboardStats is the derived view served to the admin dashboard.
type DashboardStats struct {
	TotalContactMessages      int        `json:"totalContactMessages"`
	TotalJoinUsApplications   int        `json:"totalJoinUsApplications"`
	PendingContactMessages    int        `json:"pendingContactMessages"`
	PendingJoinUsApplications int        `json:"pendingJoinUsApplications"`
	TotalUsers                int        `json:"totalUsers"`
	RecentActivity            []Activity `json:"recentActivity"`
}
