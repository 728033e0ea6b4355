package ports

// Package ports defines interfaces (hexagonal ports) for the session core.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	domainnotice "github.com/campuskit/campus-client/internal/domain/notice"
)

// Record is the credential record persisted between runs. The cached user
// allows optimistic rehydration when the backend cannot be reached.
type Record struct {
	Token string          `json:"token"`
	User  domainauth.User `json:"user"`
}

// ErrNotFound is returned by CredentialStore.Load when no record is stored.
// "Absent" is an expected state at first launch, not a failure.
type notFoundError struct{}

func (notFoundError) Error() string { return "credential record not found" }

var ErrNotFound error = notFoundError{}

// CredentialStore persists the session credential across process restarts.
// All operations must complete with an explicit success or failure; Load maps
// a missing record to ErrNotFound rather than an error path.
type CredentialStore interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context) (Record, error)
	Clear(ctx context.Context) error
}

// Credentials is the result of a successful login exchange.
type Credentials struct {
	Token string
	User  domainauth.User
}

// AuthAPI performs authentication calls against the backend.
type AuthAPI interface {
	// Login exchanges a user id and password for a bearer credential.
	// It is issued exactly once per user action; retrying is never transparent.
	Login(ctx context.Context, userID, password string) (Credentials, error)

	// Validate checks a stored token and returns the identity it belongs to.
	Validate(ctx context.Context, token string) (domainauth.User, error)

	// Logout invalidates the token server-side. Best effort.
	Logout(ctx context.Context, token string) error
}

// NoticeFetcher retrieves the current notice backlog for a session.
type NoticeFetcher interface {
	FetchNotices(ctx context.Context, token string) ([]domainnotice.Notice, error)
}

// NoticeSubscription is one live push connection. Events closes when the
// transport is lost; Close is idempotent and releases the connection
// deterministically before returning.
type NoticeSubscription interface {
	Events() <-chan domainnotice.Notice
	Close() error
}

// NoticePusher opens push subscriptions scoped to a session. Each Subscribe
// call stands up exactly one connection; reconnection policy belongs to the
// caller.
type NoticePusher interface {
	Subscribe(ctx context.Context, sess domainauth.Snapshot) (NoticeSubscription, error)
}
