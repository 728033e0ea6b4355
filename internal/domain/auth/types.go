package auth

// Package auth contains domain-level types for the client session.
// It is pure and free of transport/adapter concerns.

import "fmt"

// Role represents the application role carried by an authenticated user.
// Keep string form for easy persistence and wire encoding.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// ParseRole converts a wire string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleFaculty, RoleStudent, RoleParent:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

// Valid reports whether the role is one of the defined constants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent, RoleParent:
		return true
	default:
		return false
	}
}

// User is the authenticated principal as returned by the backend.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role Role   `json:"role"`
}

// Status describes where the session is in its lifecycle.
// StatusUnknown exists only during startup rehydration.
type Status string

const (
	StatusUnknown         Status = "unknown"
	StatusAuthenticating  Status = "authenticating"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Snapshot is an immutable view of the session state at a point in time.
// Invariant: Status == StatusAuthenticated iff Token and User are both present;
// Status == StatusUnauthenticated implies both are absent.
type Snapshot struct {
	Status Status
	Token  string
	User   User
}

// Valid reports whether the snapshot satisfies the session invariant.
func (s Snapshot) Valid() bool {
	switch s.Status {
	case StatusAuthenticated:
		return s.Token != "" && s.User.ID != "" && s.User.Role.Valid()
	case StatusUnauthenticated:
		return s.Token == "" && s.User == (User{})
	case StatusUnknown, StatusAuthenticating:
		return true
	default:
		return false
	}
}

// IsAuthenticated reports whether the snapshot carries a usable credential.
func (s Snapshot) IsAuthenticated() bool { return s.Status == StatusAuthenticated }

// Unauthenticated returns the canonical signed-out snapshot.
func Unauthenticated() Snapshot {
	return Snapshot{Status: StatusUnauthenticated}
}

// Authenticated returns a snapshot for a completed login.
func Authenticated(token string, user User) Snapshot {
	return Snapshot{Status: StatusAuthenticated, Token: token, User: user}
}
