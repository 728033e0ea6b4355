package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	apperrors "github.com/campuskit/campus-client/internal/errors"
	"github.com/campuskit/campus-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore = (*MemoryCredentialStore)(nil)
	_ ports.AuthAPI         = (*ScriptedAuthAPI)(nil)
)

// MemoryCredentialStore keeps the credential record in memory. Error fields
// let tests inject persistence failures per operation.
type MemoryCredentialStore struct {
	mu     sync.Mutex
	rec    ports.Record
	stored bool

	SaveErr  error
	LoadErr  error
	ClearErr error

	SaveCalls  int
	ClearCalls int
}

// NewMemoryCredentialStore creates an empty in-memory store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

// Seed pre-populates the store with a record, as if persisted by a prior run.
func (s *MemoryCredentialStore) Seed(rec ports.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec
	s.stored = true
}

// Stored reports the current record and whether one exists.
func (s *MemoryCredentialStore) Stored() (ports.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec, s.stored
}

func (s *MemoryCredentialStore) Save(_ context.Context, rec ports.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.rec = rec
	s.stored = true
	return nil
}

func (s *MemoryCredentialStore) Load(context.Context) (ports.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return ports.Record{}, s.LoadErr
	}
	if !s.stored {
		return ports.Record{}, ports.ErrNotFound
	}
	return s.rec, nil
}

func (s *MemoryCredentialStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClearCalls++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.rec = ports.Record{}
	s.stored = false
	return nil
}

// ScriptedAuthAPI returns canned results for each auth call. Zero-value error
// fields mean success with the configured credentials.
type ScriptedAuthAPI struct {
	mu sync.Mutex

	Creds     ports.Credentials
	LoginErr  error
	LoginFunc func(ctx context.Context, userID, password string) (ports.Credentials, error)

	ValidateUser domainauth.User
	ValidateErr  error

	LogoutErr error

	LoginCalls    int
	ValidateCalls int
	LogoutCalls   int
	LogoutTokens  []string
}

// NewScriptedAuthAPI creates a ScriptedAuthAPI that succeeds with creds.
func NewScriptedAuthAPI(creds ports.Credentials) *ScriptedAuthAPI {
	return &ScriptedAuthAPI{Creds: creds, ValidateUser: creds.User}
}

func (a *ScriptedAuthAPI) Login(ctx context.Context, userID, password string) (ports.Credentials, error) {
	a.mu.Lock()
	a.LoginCalls++
	fn := a.LoginFunc
	a.mu.Unlock()
	if fn != nil {
		return fn(ctx, userID, password)
	}
	if a.LoginErr != nil {
		return ports.Credentials{}, a.LoginErr
	}
	return a.Creds, nil
}

func (a *ScriptedAuthAPI) Validate(_ context.Context, token string) (domainauth.User, error) {
	a.mu.Lock()
	a.ValidateCalls++
	a.mu.Unlock()
	if a.ValidateErr != nil {
		return domainauth.User{}, a.ValidateErr
	}
	if token == "" {
		return domainauth.User{}, apperrors.SessionValidation("empty token")
	}
	return a.ValidateUser, nil
}

func (a *ScriptedAuthAPI) Logout(_ context.Context, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.LogoutCalls++
	a.LogoutTokens = append(a.LogoutTokens, token)
	return a.LogoutErr
}
