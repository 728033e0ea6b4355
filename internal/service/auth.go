package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/campuskit/campus-client/internal/errors"

	"github.com/campuskit/campus-client/internal/ports"
	"github.com/campuskit/campus-client/internal/session"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API     ports.AuthAPI
	Store   ports.CredentialStore
	Session *session.Context
	Logger  *slog.Logger

	// LogoutTimeout bounds the fire-and-forget server-side invalidation.
	// Defaults to 5s.
	LogoutTimeout time.Duration
}

// AuthService orchestrates the session lifecycle: login, logout, and startup
// rehydration. It is one of the two writers of the session context (the other
// being nobody: rehydration also lives here).
type AuthService struct {
	api           ports.AuthAPI
	store         ports.CredentialStore
	session       *session.Context
	logger        *slog.Logger
	logoutTimeout time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.API == nil {
		return nil, errors.New("auth service: API is required")
	}
	if opts.Store == nil {
		return nil, errors.New("auth service: credential store is required")
	}
	if opts.Session == nil {
		return nil, errors.New("auth service: session context is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logoutTimeout := opts.LogoutTimeout
	if logoutTimeout <= 0 {
		logoutTimeout = 5 * time.Second
	}
	return &AuthService{
		api:           opts.API,
		store:         opts.Store,
		session:       opts.Session,
		logger:        logger,
		logoutTimeout: logoutTimeout,
	}, nil
}

// Login exchanges credentials for a session. The backend is asked exactly
// once; retrying is a user decision, never a transparent recovery. On success
// the in-memory session and the credential store are updated together from
// the caller's perspective: a persistence failure degrades to an in-memory
// session for this run and is logged, not surfaced as a login failure.
//
// A result arriving after a logout superseded the attempt is discarded and
// the session stays signed out.
func (s *AuthService) Login(ctx context.Context, userID, password string) error {
	if userID == "" {
		return apperrors.ValidationField("userId", "user id is required")
	}
	if password == "" {
		return apperrors.ValidationField("password", "password is required")
	}

	attempt := s.session.Begin()
	s.session.MarkAuthenticating(attempt)

	creds, err := s.api.Login(ctx, userID, password)
	if err != nil {
		s.session.MarkUnauthenticated(attempt)
		return err
	}

	if !s.session.MarkAuthenticated(attempt, creds.Token, creds.User) {
		s.logger.Info("discarding login result superseded by a later action", "user_id", creds.User.ID)
		return nil
	}

	if err := s.store.Save(ctx, ports.Record{Token: creds.Token, User: creds.User}); err != nil {
		persistErr := apperrors.Wrap(err, apperrors.ErrCodeCredentialPersistence, "credential persistence failed")
		s.logger.Warn("continuing with in-memory session only", "error", persistErr)
		return nil
	}

	// A logout may have raced in while Save was in flight; its Clear ran
	// before our write landed. Leaving the record would re-authenticate a
	// signed-out user on the next start.
	if !s.session.IsCurrent(attempt) {
		s.logger.Info("removing credential persisted by a superseded login")
		if err := s.store.Clear(ctx); err != nil {
			s.logger.Error("clear superseded credential failed", "error", err)
		}
	}
	return nil
}

// Logout signs the user out. It never fails: the attempt counter is bumped
// first so any in-flight login or validation result is discarded, the stored
// credential is cleared, and server-side invalidation happens in the
// background on a best-effort basis.
func (s *AuthService) Logout(ctx context.Context) {
	snap := s.session.Current()
	s.session.Reset()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("clear credential store failed", "error", err)
	}

	if snap.Token == "" {
		return
	}
	token := snap.Token
	go func() {
		invalidateCtx, cancel := context.WithTimeout(context.Background(), s.logoutTimeout)
		defer cancel()
		if err := s.api.Logout(invalidateCtx, token); err != nil {
			s.logger.Debug("server-side token invalidation failed", "error", err)
		}
	}()
}

// Invalidate signs the user out locally after the backend rejected the
// session token. Unlike Logout there is no server-side invalidation to
// attempt: the token is already dead.
func (s *AuthService) Invalidate(ctx context.Context) {
	s.session.Reset()
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("clear credential store failed", "error", err)
	}
}

// Rehydrate restores the session at process start. An absent record settles
// the session as unauthenticated. A present record is validated against the
// backend: a definitive rejection clears the store and signs out; an
// unreachable backend trusts the cached record optimistically for this run
// (it will be re-validated on the next authenticated request).
func (s *AuthService) Rehydrate(ctx context.Context) {
	attempt := s.session.Begin()

	rec, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.Warn("credential load failed", "error", err)
		}
		s.session.MarkUnauthenticated(attempt)
		return
	}

	s.session.MarkAuthenticating(attempt)

	user, err := s.api.Validate(ctx, rec.Token)
	switch {
	case err == nil:
		s.session.MarkAuthenticated(attempt, rec.Token, user)
	case apperrors.IsSessionValidation(err) || apperrors.IsInvalidCredentials(err):
		s.logger.Info("stored session rejected, clearing credential", "error", err)
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			s.logger.Error("clear rejected credential failed", "error", clearErr)
		}
		s.session.MarkUnauthenticated(attempt)
	default:
		// Unreachable or misbehaving backend: the cached identity is the best
		// information available. Sign in optimistically when it is usable.
		if rec.User.ID == "" || !rec.User.Role.Valid() {
			s.logger.Warn("cached credential unusable without backend validation", "error", err)
			s.session.MarkUnauthenticated(attempt)
			return
		}
		s.logger.Warn("backend unavailable during rehydration, trusting cached credential", "error", err)
		s.session.MarkAuthenticated(attempt, rec.Token, rec.User)
	}
}
