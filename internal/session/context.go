package session

// Package session holds the process-wide reactive session state. Exactly one
// Context exists per process; every consumer reads the same shared instance.

import (
	"log/slog"
	"sync"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
)

// Context is the single source of truth for "is the user authenticated" and
// "what role do they have". Mutation is restricted to the auth service and the
// startup rehydration routine; everything else observes.
//
// Writes carry the attempt id they were issued under. A mutation whose attempt
// has been superseded (a newer attempt was issued, or a reset occurred) is
// discarded, so results of stale asynchronous operations can never move the
// state. Last-writer-wins is deliberately not assumed.
type Context struct {
	logger *slog.Logger

	mu      sync.Mutex
	snap    domainauth.Snapshot
	attempt uint64
	subs    map[chan domainauth.Snapshot]struct{}
}

// New constructs the session context in the startup state (status unknown).
func New(logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		logger: logger,
		snap:   domainauth.Snapshot{Status: domainauth.StatusUnknown},
		subs:   make(map[chan domainauth.Snapshot]struct{}),
	}
}

// Current returns the latest snapshot.
func (c *Context) Current() domainauth.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Begin issues a new attempt id, superseding any in-flight attempt. Callers
// pass the returned id back into the Mark* mutators.
func (c *Context) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempt++
	return c.attempt
}

// Reset supersedes every in-flight attempt and forces the unauthenticated
// state. Used by logout and forced session invalidation. The returned attempt
// id is current until the next Begin.
func (c *Context) Reset() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempt++
	c.apply(domainauth.Unauthenticated())
	return c.attempt
}

// IsCurrent reports whether the attempt is still the latest one issued.
// Callers with side effects outside the session (credential persistence) use
// it to detect that a reset or newer attempt raced in.
func (c *Context) IsCurrent(attempt uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return attempt == c.attempt
}

// MarkAuthenticating records that the given attempt started talking to the
// backend. Returns false if the attempt was superseded.
func (c *Context) MarkAuthenticating(attempt uint64) bool {
	return c.applyFor(attempt, domainauth.Snapshot{Status: domainauth.StatusAuthenticating})
}

// MarkAuthenticated installs a completed login for the given attempt.
// Returns false if the attempt was superseded and the result was discarded.
func (c *Context) MarkAuthenticated(attempt uint64, token string, user domainauth.User) bool {
	return c.applyFor(attempt, domainauth.Authenticated(token, user))
}

// MarkUnauthenticated records a failed or cleared session for the given
// attempt. Returns false if the attempt was superseded.
func (c *Context) MarkUnauthenticated(attempt uint64) bool {
	return c.applyFor(attempt, domainauth.Unauthenticated())
}

func (c *Context) applyFor(attempt uint64, next domainauth.Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if attempt != c.attempt {
		c.logger.Debug("discarding stale session transition",
			"attempt", attempt, "current_attempt", c.attempt, "status", string(next.Status))
		return false
	}
	c.apply(next)
	return true
}

// apply installs the snapshot and notifies subscribers. Caller holds mu.
func (c *Context) apply(next domainauth.Snapshot) {
	if !next.Valid() {
		// Constructors uphold the invariant; a violation here is a programming error.
		c.logger.Error("session snapshot violates invariant", "status", string(next.Status))
		return
	}
	if next == c.snap {
		return
	}
	c.snap = next
	for ch := range c.subs {
		// Coalesce: replace any undelivered snapshot with the latest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- next:
		default:
		}
	}
}

// Subscribe registers an observer. The returned channel carries snapshots,
// coalesced to the most recent undelivered value; the unsubscribe func
// releases the registration and closes the channel.
func (c *Context) Subscribe() (func(), <-chan domainauth.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan domainauth.Snapshot, 1)
	c.subs[ch] = struct{}{}

	unsub := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subs[ch]; !ok {
			return
		}
		delete(c.subs, ch)
		drainAndClose(ch)
	}
	return unsub, ch
}

// drainAndClose removes any buffered snapshot before closing the channel so
// receivers observe a closed channel immediately.
func drainAndClose(ch chan domainauth.Snapshot) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}
