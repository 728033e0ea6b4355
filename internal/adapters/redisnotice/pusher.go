package redisnotice

// Package redisnotice provides a Redis pub/sub notice push transport, for
// deployments where the school backend publishes notice events to a Redis
// channel instead of exposing an SSE stream. Payloads match the SSE wire
// shape; visibility filtering still happens client-side.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/campuskit/campus-client/internal/errors"

	"github.com/campuskit/campus-client/internal/adapters/restapi"
	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	domainnotice "github.com/campuskit/campus-client/internal/domain/notice"
	"github.com/campuskit/campus-client/internal/ports"
)

const eventBufferSize = 16

// Pusher subscribes to notice events on a Redis channel.
type Pusher struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

// NewPusher creates a Redis-based notice pusher.
func NewPusher(client redis.UniversalClient, channel string, logger *slog.Logger) (*Pusher, error) {
	if client == nil {
		return nil, errors.New("redisnotice: client is required")
	}
	if channel == "" {
		return nil, errors.New("redisnotice: channel is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pusher{client: client, channel: channel, logger: logger.With("component", "redisnotice")}, nil
}

// Subscribe opens one pub/sub subscription for the session.
func (p *Pusher) Subscribe(ctx context.Context, sess domainauth.Snapshot) (ports.NoticeSubscription, error) {
	if !sess.IsAuthenticated() {
		return nil, apperrors.Validation("subscribe requires an authenticated session")
	}

	pubsub := p.client.Subscribe(ctx, p.channel)
	// Force the subscription handshake so transport failures surface here
	// instead of as a silently empty channel.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNetworkUnavailable, "redis subscribe failed")
	}

	sub := &subscription{
		pubsub: pubsub,
		events: make(chan domainnotice.Notice, eventBufferSize),
		done:   make(chan struct{}),
	}
	go p.forward(ctx, pubsub.Channel(), sub)
	return sub, nil
}

type noticeEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Target      string    `json:"target"`
	SpecificIDs []string  `json:"specificIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Pusher) forward(ctx context.Context, msgs <-chan *redis.Message, sub *subscription) {
	defer close(sub.done)
	defer close(sub.events)

	for msg := range msgs {
		var ev noticeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			p.logger.Warn("dropping undecodable notice event", "error", err)
			continue
		}
		n, err := restapi.DecodeNotice(ev.ID, ev.Title, ev.Message, ev.Target, ev.SpecificIDs, ev.CreatedAt, time.Now())
		if err != nil {
			p.logger.Warn("dropping notice event with invalid payload", "error", err)
			continue
		}
		select {
		case sub.events <- n:
		case <-ctx.Done():
			return
		}
	}
}

// subscription is one live pub/sub connection.
type subscription struct {
	pubsub    *redis.PubSub
	events    chan domainnotice.Notice
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func (s *subscription) Events() <-chan domainnotice.Notice { return s.events }

// Close releases the pub/sub connection and waits for the forwarder to stop.
func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.pubsub.Close()
		<-s.done
	})
	return s.closeErr
}

var _ ports.NoticePusher = (*Pusher)(nil)
