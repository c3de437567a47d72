// Package domain contains entity without logic, just meta-data
package domain

// Role classifies a live connection. Assigned once at connect time and
// never changes for the lifetime of the session.
type Role string

const (
	RoleAnonymous Role = "ANONYMOUS"
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
)

// Identity is the verified user identity behind a USER or ADMIN session.
// Anonymous sessions carry no identity.
type Identity struct {
	UserID   int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Admin    bool   `json:"isAdmin"`
}

// RoleOf maps a verified identity to its session role. A nil identity is
// an anonymous connection.
func RoleOf(ident *Identity) Role {
	switch {
	case ident == nil:
		return RoleAnonymous
	case ident.Admin:
		return RoleAdmin
	default:
		return RoleUser
	}
}
