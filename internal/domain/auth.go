package domain

import "time"

// Identity is the authenticated caller bound to a request.
type Identity struct {
	UserID    string
	Username  string
	Role      Role
	SessionID string
}

// IsStaff reports whether the caller is an agent or admin.
func (i *Identity) IsStaff() bool {
	return i != nil && i.Role.IsStaff()
}

// Session is the server-side record behind a session token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity converts the session to a request identity.
func (s *Session) Identity() *Identity {
	return &Identity{UserID: s.UserID, Username: s.Username, Role: s.Role, SessionID: s.ID}
}
