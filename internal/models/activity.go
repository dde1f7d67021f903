package models

import "time"

// ActionType classifies an activity log entry.
type ActionType string

const (
	ActionLogin            ActionType = "login"
	ActionFailedLogin      ActionType = "failed_login"
	ActionLogout           ActionType = "logout"
	ActionRegister         ActionType = "register"
	ActionProfileUpdate    ActionType = "profile_update"
	ActionUserStatusChange ActionType = "user_status_change"
	ActionUserRoleChange   ActionType = "user_role_change"
)

// ActivityEntry is one immutable row of the append-only audit trail.
// SubjectEmail and IPAddress form the structured tuple the rate
// limiter counts by; Description is display-only.
type ActivityEntry struct {
	ID           int64      `json:"id"`
	UserID       *int64     `json:"user_id,omitempty"`
	ActionType   ActionType `json:"action_type"`
	Description  string     `json:"description"`
	SubjectEmail string     `json:"subject_email,omitempty"`
	IPAddress    string     `json:"ip_address"`
	UserAgent    string     `json:"user_agent"`
	CreatedAt    time.Time  `json:"created_at"`

	// UserEmail is populated by list queries that join users, for
	// the admin activity view. Never stored.
	UserEmail string `json:"user_email,omitempty"`
}
