package notices

// Package notices contains hand-written test doubles for notice ports:
// a scripted pusher, a manually driven subscription, and a fetcher func
// adapter.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	domainnotice "github.com/campuskit/campus-client/internal/domain/notice"
	"github.com/campuskit/campus-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.NoticePusher       = (*ScriptedPusher)(nil)
	_ ports.NoticeSubscription = (*ManualSubscription)(nil)
	_ ports.NoticeFetcher      = (FetcherFunc)(nil)
)

// FetcherFunc adapts a function to ports.NoticeFetcher.
type FetcherFunc func(ctx context.Context, token string) ([]domainnotice.Notice, error)

func (f FetcherFunc) FetchNotices(ctx context.Context, token string) ([]domainnotice.Notice, error) {
	return f(ctx, token)
}

// StaticFetcher returns a fetcher that always yields the given backlog.
func StaticFetcher(backlog ...domainnotice.Notice) FetcherFunc {
	return func(context.Context, string) ([]domainnotice.Notice, error) {
		return backlog, nil
	}
}

// ManualSubscription is a push subscription driven by the test: Push emits a
// notice, Drop closes the event stream as a lost transport would.
type ManualSubscription struct {
	events chan domainnotice.Notice

	mu       sync.Mutex
	dropped  bool
	closed   bool
	OnClose  func()
	CloseErr error
}

// NewManualSubscription creates a subscription with a small event buffer.
func NewManualSubscription() *ManualSubscription {
	return &ManualSubscription{events: make(chan domainnotice.Notice, 16)}
}

func (s *ManualSubscription) Events() <-chan domainnotice.Notice { return s.events }

// Push delivers a notice to the subscriber. It panics if the stream was
// already dropped, which indicates a broken test.
func (s *ManualSubscription) Push(n domainnotice.Notice) {
	s.events <- n
}

// Drop simulates transport loss by closing the event stream.
func (s *ManualSubscription) Drop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dropped {
		return
	}
	s.dropped = true
	close(s.events)
}

func (s *ManualSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if !s.dropped {
		s.dropped = true
		close(s.events)
	}
	if s.OnClose != nil {
		s.OnClose()
	}
	return s.CloseErr
}

// Closed reports whether Close was called.
func (s *ManualSubscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ScriptedPusher hands out subscriptions (or errors) in sequence. Once the
// script is exhausted it keeps returning the final entry, so a reconnect loop
// can be observed settling.
type ScriptedPusher struct {
	mu     sync.Mutex
	script []SubscribeResult
	calls  int
	waiter chan struct{}
}

// SubscribeResult is one scripted Subscribe outcome.
type SubscribeResult struct {
	Sub ports.NoticeSubscription
	Err error
}

// NewScriptedPusher creates a pusher that plays back script in order.
func NewScriptedPusher(script ...SubscribeResult) *ScriptedPusher {
	return &ScriptedPusher{script: script}
}

func (p *ScriptedPusher) Subscribe(ctx context.Context, _ domainauth.Snapshot) (ports.NoticeSubscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	idx := p.calls
	p.calls++
	if idx >= len(p.script) {
		idx = len(p.script) - 1
	}
	var res SubscribeResult
	if idx >= 0 {
		res = p.script[idx]
	}
	if p.waiter != nil {
		close(p.waiter)
		p.waiter = nil
	}
	p.mu.Unlock()

	if res.Err != nil {
		return nil, res.Err
	}
	if res.Sub == nil {
		return nil, errors.New("scripted pusher: no subscription scripted")
	}
	return res.Sub, nil
}

// Calls reports how many times Subscribe was invoked.
func (p *ScriptedPusher) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// NextCall returns a channel closed on the next Subscribe invocation.
func (p *ScriptedPusher) NextCall() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan struct{})
	p.waiter = ch
	return ch
}
