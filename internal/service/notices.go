package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/campuskit/campus-client/internal/errors"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	domainnotice "github.com/campuskit/campus-client/internal/domain/notice"
	"github.com/campuskit/campus-client/internal/ports"
)

// ReconnectPolicy bounds the notice channel reconnection behaviour.
type ReconnectPolicy struct {
	// MaxRetries is the number of consecutive failures tolerated before the
	// channel is reported as degraded.
	MaxRetries int
	// BaseDelay is the first retry delay; it doubles per consecutive failure.
	BaseDelay time.Duration
	// MaxDelay caps the delay growth and paces retries once degraded.
	MaxDelay time.Duration
	// HealthyDuration is how long a connection must stay up before it counts
	// as a recovery. A stream that dies sooner is treated as a failed attempt,
	// so a server that accepts and immediately drops still backs off.
	HealthyDuration time.Duration
}

// Sanitize applies guardrails to the policy values.
func (p *ReconnectPolicy) Sanitize() {
	if p.MaxRetries <= 0 {
		p.MaxRetries = 5
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 500 * time.Millisecond
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = 30 * time.Second
	}
	if p.HealthyDuration <= 0 {
		p.HealthyDuration = 10 * time.Second
	}
}

// Delay returns the backoff delay before the given retry (1-based).
func (p ReconnectPolicy) Delay(retry int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < retry; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// NoticeServiceOptions groups dependencies for NoticeService.
type NoticeServiceOptions struct {
	Fetcher   ports.NoticeFetcher
	Pusher    ports.NoticePusher
	Reconnect ReconnectPolicy
	Logger    *slog.Logger

	// OnSessionRejected is invoked when the backend refuses the session token
	// on the notice surface. The token is dead, so reconnecting cannot help;
	// the handler is expected to force a sign-out. Optional.
	OnSessionRejected func(ctx context.Context)
}

// NoticeService maintains the live, ordered, deduplicated notice feed for the
// current session by merging the initial bulk fetch with the push
// subscription. One service instance exists per process; Run is invoked once
// per authenticated epoch by the route gate and returns only after the
// subscription has been torn down.
type NoticeService struct {
	fetcher           ports.NoticeFetcher
	pusher            ports.NoticePusher
	reconnect         ReconnectPolicy
	logger            *slog.Logger
	onSessionRejected func(ctx context.Context)

	mu       sync.Mutex
	feed     *domainnotice.Feed
	degraded bool
	toasts   map[chan domainnotice.Notice]struct{}
}

// NewNoticeService constructs a new NoticeService.
func NewNoticeService(opts NoticeServiceOptions) (*NoticeService, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("notice service: fetcher is required")
	}
	if opts.Pusher == nil {
		return nil, errors.New("notice service: pusher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Reconnect.Sanitize()
	return &NoticeService{
		fetcher:           opts.Fetcher,
		pusher:            opts.Pusher,
		reconnect:         opts.Reconnect,
		logger:            logger,
		onSessionRejected: opts.OnSessionRejected,
		feed:              domainnotice.NewFeed(),
		toasts:            make(map[chan domainnotice.Notice]struct{}),
	}, nil
}

// Notices returns the current feed in display order.
func (s *NoticeService) Notices() []domainnotice.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.All()
}

// Degraded reports whether reconnection attempts have been exhausted and
// notices may be delayed. A successful reconnect clears it.
func (s *NoticeService) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Toasts registers an observer for newly merged visible notices. Each merged
// notice is delivered at most once per observer; slow observers miss toasts
// rather than block the feed. The unsubscribe func closes the channel.
func (s *NoticeService) Toasts() (func(), <-chan domainnotice.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan domainnotice.Notice, 16)
	s.toasts[ch] = struct{}{}

	unsub := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.toasts[ch]; !ok {
			return
		}
		delete(s.toasts, ch)
		drainAndCloseToasts(ch)
	}
	return unsub, ch
}

// Run drives the feed for one authenticated epoch: an initial bulk fetch,
// then a push subscription reconnected with bounded backoff for as long as
// ctx lives. It returns ctx.Err() once the epoch ends and the subscription is
// fully closed.
func (s *NoticeService) Run(ctx context.Context, sess domainauth.Snapshot) error {
	if !sess.IsAuthenticated() {
		return apperrors.Validation("notice channel requires an authenticated session")
	}

	s.resetFeed()

	if notices, err := s.fetcher.FetchNotices(ctx, sess.Token); err != nil {
		if apperrors.IsSessionValidation(err) {
			return s.rejectSession(ctx, err)
		}
		s.logger.Warn("initial notice fetch failed", "error", err)
	} else {
		s.merge(sess, notices...)
	}

	retries := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		sub, err := s.pusher.Subscribe(ctx, sess)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if apperrors.IsSessionValidation(err) {
				return s.rejectSession(ctx, err)
			}
			retries++
			s.recordFailure(retries, err)
			if !sleep(ctx, s.reconnect.Delay(retries)) {
				return ctx.Err()
			}
			continue
		}

		// The connection has to prove itself before it counts as a recovery;
		// accepting the subscribe and dropping the stream right away is still
		// a failure and must not reset the backoff.
		connectedAt := time.Now()
		healthy := time.AfterFunc(s.reconnect.HealthyDuration, func() {
			if s.isDegraded() {
				s.logger.Info("notice channel recovered")
				s.setDegraded(false)
			}
		})

		s.consume(ctx, sess, sub)
		healthy.Stop()
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if lifetime := time.Since(connectedAt); lifetime < s.reconnect.HealthyDuration {
			retries++
			s.recordFailure(retries, errStreamDroppedEarly)
			if !sleep(ctx, s.reconnect.Delay(retries)) {
				return ctx.Err()
			}
			continue
		}

		if s.isDegraded() {
			s.logger.Info("notice channel recovered")
			s.setDegraded(false)
		}
		retries = 0
		s.logger.Info("notice channel disconnected, reconnecting")
	}
}

// errStreamDroppedEarly marks a subscription that died before proving healthy.
var errStreamDroppedEarly = errors.New("notice stream dropped before becoming healthy")

// recordFailure counts one consecutive channel failure, escalating to the
// degraded state once the retry budget is spent.
func (s *NoticeService) recordFailure(retries int, cause error) {
	if retries == s.reconnect.MaxRetries+1 {
		disconnected := apperrors.ChannelDisconnected("notice delivery degraded after exhausting reconnect attempts")
		s.logger.Error("notices may be delayed", "error", disconnected, "cause", cause)
		s.setDegraded(true)
	} else if !s.isDegraded() {
		s.logger.Warn("notice channel unavailable, retrying",
			"error", cause, "retry", retries, "max_retries", s.reconnect.MaxRetries)
	}
}

// rejectSession handles the backend refusing the session token on the notice
// surface. Retrying with the same token cannot succeed, so the epoch ends here
// and the configured handler forces a sign-out.
func (s *NoticeService) rejectSession(ctx context.Context, err error) error {
	s.logger.Info("backend rejected session token, signing out", "error", err)
	if s.onSessionRejected != nil {
		s.onSessionRejected(ctx)
	}
	return err
}

// consume forwards pushed notices into the feed until the subscription or the
// epoch ends. The subscription is closed before returning so teardown is
// deterministic: once Run returns, nothing can deliver into the next tree.
func (s *NoticeService) consume(ctx context.Context, sess domainauth.Snapshot, sub ports.NoticeSubscription) {
	defer func() {
		if err := sub.Close(); err != nil {
			s.logger.Debug("close notice subscription", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-sub.Events():
			if !ok {
				return
			}
			s.merge(sess, n)
		}
	}
}

// merge folds notices into the feed, applying the visibility invariant before
// dedup so another role's notices never enter local state. Newly inserted
// notices fan out to toast observers.
func (s *NoticeService) merge(sess domainauth.Snapshot, incoming ...domainnotice.Notice) {
	visible := incoming[:0:0]
	for _, n := range incoming {
		if n.VisibleTo(sess.User) {
			visible = append(visible, n)
		}
	}
	if len(visible) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := s.feed.Merge(visible...)
	for _, n := range inserted {
		for ch := range s.toasts {
			select {
			case ch <- n:
			default:
			}
		}
	}
}

func (s *NoticeService) resetFeed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = domainnotice.NewFeed()
	s.degraded = false
}

func (s *NoticeService) setDegraded(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.degraded = v
}

func (s *NoticeService) isDegraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// sleep waits for d or until ctx is done, reporting whether the full delay
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func drainAndCloseToasts(ch chan domainnotice.Notice) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}
