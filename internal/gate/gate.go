package gate

// Package gate decides which top-level navigation tree is mounted, driven by
// the session context. It owns the notice channel lifecycle: the channel for
// an authenticated tree is opened when that tree mounts and is torn down
// completely before any other tree mounts.

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	"github.com/campuskit/campus-client/internal/service"
	"github.com/campuskit/campus-client/internal/session"
)

// Tree identifies a top-level navigation tree.
type Tree string

const (
	TreeBootstrapping   Tree = "bootstrapping"
	TreeUnauthenticated Tree = "unauthenticated"
	TreeAdmin           Tree = "admin"
	TreeFaculty         Tree = "faculty"
	TreeStudentParent   Tree = "student_parent"
)

// IsAuthenticated reports whether the tree requires an authenticated session.
func (t Tree) IsAuthenticated() bool {
	switch t {
	case TreeAdmin, TreeFaculty, TreeStudentParent:
		return true
	default:
		return false
	}
}

// TreeFor maps a session snapshot to the tree that should be mounted. The
// transitional authenticating status does not settle on any tree (the
// currently mounted tree stays up while a login or validation is in flight),
// reported by the second return value.
func TreeFor(snap domainauth.Snapshot) (Tree, bool) {
	switch snap.Status {
	case domainauth.StatusUnknown:
		return TreeBootstrapping, true
	case domainauth.StatusUnauthenticated:
		return TreeUnauthenticated, true
	case domainauth.StatusAuthenticated:
		switch snap.User.Role {
		case domainauth.RoleAdmin:
			return TreeAdmin, true
		case domainauth.RoleFaculty:
			return TreeFaculty, true
		case domainauth.RoleStudent, domainauth.RoleParent:
			return TreeStudentParent, true
		default:
			// Unreachable while the session invariant holds.
			return TreeUnauthenticated, true
		}
	default:
		return "", false
	}
}

// Options groups dependencies for the Gate.
type Options struct {
	Session *session.Context
	// Notices may be nil in tests that only exercise tree selection.
	Notices *service.NoticeService
	Logger  *slog.Logger
}

// Gate is the route gate state machine. Its state is a pure function of the
// session snapshot; the only thing it owns is which tree is mounted and the
// notice channel epoch bound to it.
type Gate struct {
	session *session.Context
	notices *service.NoticeService
	logger  *slog.Logger

	mu      sync.Mutex
	current Tree
	subs    map[chan Tree]struct{}

	// epoch state, touched only from the Run goroutine
	epochCancel context.CancelFunc
	epochDone   chan struct{}
	epochSnap   domainauth.Snapshot
}

// New constructs a Gate in the bootstrapping state.
func New(opts Options) (*Gate, error) {
	if opts.Session == nil {
		return nil, errors.New("gate: session context is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		session: opts.Session,
		notices: opts.Notices,
		logger:  logger,
		current: TreeBootstrapping,
		subs:    make(map[chan Tree]struct{}),
	}, nil
}

// Current returns the mounted tree.
func (g *Gate) Current() Tree {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Subscribe registers an observer of tree transitions. The channel is
// coalesced to the most recent undelivered tree; the unsubscribe func closes
// it. The surface is read-only: screens observe, they never steer.
func (g *Gate) Subscribe() (func(), <-chan Tree) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch := make(chan Tree, 1)
	g.subs[ch] = struct{}{}

	unsub := func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if _, ok := g.subs[ch]; !ok {
			return
		}
		delete(g.subs, ch)
		drainAndClose(ch)
	}
	return unsub, ch
}

// Run observes the session context until ctx ends. It applies the snapshot
// that is already current before waiting, so a session settled before Run
// starts is not missed.
func (g *Gate) Run(ctx context.Context) error {
	unsub, snaps := g.session.Subscribe()
	defer unsub()

	g.apply(ctx, g.session.Current())

	for {
		select {
		case <-ctx.Done():
			g.teardownEpoch()
			return ctx.Err()
		case snap, ok := <-snaps:
			if !ok {
				g.teardownEpoch()
				return nil
			}
			g.apply(ctx, snap)
		}
	}
}

// apply recomputes the mounted tree for a snapshot. On a transition the
// previous epoch is torn down first and Run waits for the notice service to
// return, so a stale subscription can never deliver into the next tree.
//
// The epoch is keyed on the full snapshot, not just the tree: a new login
// landing on the same tree (another user of the same role, or a fresh token)
// still restarts the notice channel under the new identity.
func (g *Gate) apply(ctx context.Context, snap domainauth.Snapshot) {
	next, settled := TreeFor(snap)
	if !settled {
		return
	}
	sameTree := next == g.Current()
	if sameTree && (!next.IsAuthenticated() || snap == g.epochSnap) {
		return
	}

	g.teardownEpoch()

	if next.IsAuthenticated() && g.notices != nil {
		epochCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		g.epochCancel = cancel
		g.epochDone = done
		g.epochSnap = snap
		go func(sess domainauth.Snapshot) {
			defer close(done)
			if err := g.notices.Run(epochCtx, sess); err != nil && !errors.Is(err, context.Canceled) {
				g.logger.Error("notice channel terminated", "error", err)
			}
		}(snap)
	}

	if !sameTree {
		g.publish(next)
	}
}

// teardownEpoch cancels the live notice channel, if any, and blocks until it
// has fully shut down.
func (g *Gate) teardownEpoch() {
	if g.epochCancel == nil {
		return
	}
	g.epochCancel()
	<-g.epochDone
	g.epochCancel = nil
	g.epochDone = nil
	g.epochSnap = domainauth.Snapshot{}
}

func (g *Gate) publish(next Tree) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = next
	g.logger.Info("mounted navigation tree", "tree", string(next))
	for ch := range g.subs {
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

func drainAndClose(ch chan Tree) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}
