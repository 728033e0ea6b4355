package sse

// Package sse implements the notice push subscription over Server-Sent
// Events. The stream endpoint lives on the same configured backend base
// address as the REST contract.

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "github.com/campuskit/campus-client/internal/errors"

	"github.com/campuskit/campus-client/internal/adapters/restapi"
	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	domainnotice "github.com/campuskit/campus-client/internal/domain/notice"
	"github.com/campuskit/campus-client/internal/ports"
)

const (
	noticeEventName = "new_notice"
	eventBufferSize = 16
	maxLineBytes    = 256 * 1024
)

// Options configures the SSE pusher.
type Options struct {
	BaseURL string
	// HTTPClient must not carry an overall timeout; the stream is long-lived.
	// When nil a client without timeout is used.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Pusher opens one SSE connection per Subscribe call.
type Pusher struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewPusher constructs an SSE notice pusher.
func NewPusher(opts Options) (*Pusher, error) {
	if opts.BaseURL == "" {
		return nil, apperrors.ValidationField("base_url", "backend base URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pusher{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		logger:  logger.With("component", "sse"),
	}, nil
}

// Subscribe opens the notice stream for the session. The server filters by
// the bearer token's role; the notice service filters again locally so a
// misbehaving server cannot leak notices across roles.
func (p *Pusher) Subscribe(ctx context.Context, sess domainauth.Snapshot) (ports.NoticeSubscription, error) {
	if !sess.IsAuthenticated() {
		return nil, apperrors.Validation("subscribe requires an authenticated session")
	}

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, p.baseURL+"/api/notices/stream", nil)
	if err != nil {
		cancel()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build stream request")
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	resp, err := p.http.Do(req)
	if err != nil {
		cancel()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNetworkUnavailable, "notice stream unreachable")
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_ = resp.Body.Close()
		cancel()
		return nil, apperrors.SessionValidation("stored session is no longer valid")
	case resp.StatusCode != http.StatusOK:
		_ = resp.Body.Close()
		cancel()
		return nil, apperrors.Serverf("notice stream failed with status %d", resp.StatusCode)
	}

	sub := &subscription{
		events: make(chan domainnotice.Notice, eventBufferSize),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go p.read(streamCtx, resp, sub)
	return sub, nil
}

// read consumes the event stream until transport loss or cancellation.
func (p *Pusher) read(ctx context.Context, resp *http.Response, sub *subscription) {
	defer close(sub.done)
	defer close(sub.events)
	defer func() {
		if err := resp.Body.Close(); err != nil {
			p.logger.Debug("close stream body", "error", err)
		}
	}()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	var eventName string
	var dataLines []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			// Blank line terminates one event block.
			if eventName == noticeEventName && len(dataLines) > 0 {
				p.dispatch(ctx, sub, strings.Join(dataLines, "\n"))
			}
			eventName = ""
			dataLines = nil
		case strings.HasPrefix(line, ":"):
			// Heartbeat/comment; keep-alive only.
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		p.logger.Debug("notice stream closed", "error", err)
	}
}

type noticeEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Target      string    `json:"target"`
	SpecificIDs []string  `json:"specificIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Pusher) dispatch(ctx context.Context, sub *subscription, data string) {
	var ev noticeEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		p.logger.Warn("dropping undecodable notice event", "error", err)
		return
	}
	n, err := restapi.DecodeNotice(ev.ID, ev.Title, ev.Message, ev.Target, ev.SpecificIDs, ev.CreatedAt, time.Now())
	if err != nil {
		p.logger.Warn("dropping notice event with invalid payload", "error", err)
		return
	}
	select {
	case sub.events <- n:
	case <-ctx.Done():
	}
}

// subscription is one live SSE connection.
type subscription struct {
	events    chan domainnotice.Notice
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscription) Events() <-chan domainnotice.Notice { return s.events }

// Close tears the connection down and waits for the reader to finish, so the
// subscription is fully released when Close returns.
func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}

var _ ports.NoticePusher = (*Pusher)(nil)
