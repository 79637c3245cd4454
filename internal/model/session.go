package model

// Role controls which catalog operations a session may perform.
// It is carried as a claim in the bearer token.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks whether the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleViewer:
		return true
	}
	return false
}

// CanMutate reports whether the role may create, update, or delete products.
// This gates client-side affordances only; the server enforces the role on
// every mutation route regardless of what the client derived.
func (r Role) CanMutate() bool {
	return r == RoleAdmin
}

// Session is an authenticated identity: the bearer token plus the display
// fields derived from it at login time.
type Session struct {
	Token string `json:"token" toml:"token"`
	Email string `json:"email" toml:"email"`
	Name  string `json:"name" toml:"name"`
	Role  Role   `json:"role" toml:"role"`
}

// User is a server-side account record. PasswordHash is the hex-encoded
// SHA-256 of the password; it never leaves the store layer.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         Role
}
