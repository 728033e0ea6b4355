package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/campuskit/campus-client/config"
	"github.com/campuskit/campus-client/internal/gate"
	"github.com/campuskit/campus-client/internal/service"
	"github.com/campuskit/campus-client/internal/session"
)

// AppDeps carries everything NewApp needs.
type AppDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// App is the fully wired session core: the single session context, the auth
// and notice services, and the route gate observing them.
type App struct {
	Config  *config.AppConfig
	Session *session.Context
	Auth    *service.AuthService
	Notices *service.NoticeService
	Gate    *gate.Gate

	redisClient redis.UniversalClient
	logger      *slog.Logger
}

// NewApp wires adapters and services from configuration.
func NewApp(deps *AppDeps) (*App, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	store, err := BuildCredentialStore(cfg.Credentials, logger)
	if err != nil {
		return nil, err
	}

	rest, err := BuildRESTClient(cfg.Backend, logger)
	if err != nil {
		return nil, err
	}

	authAPI, err := BuildAuthAPI(cfg.Auth, rest, logger)
	if err != nil {
		return nil, err
	}

	pusher, redisClient, err := BuildNoticePusher(cfg.Notices, cfg.Backend, logger)
	if err != nil {
		return nil, err
	}

	sessionCtx := session.New(logger)

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		API:     authAPI,
		Store:   store,
		Session: sessionCtx,
		Logger:  logger,
	})
	if err != nil {
		closeRedis(redisClient, logger)
		return nil, fmt.Errorf("create auth service: %w", err)
	}

	noticeSvc, err := service.NewNoticeService(service.NoticeServiceOptions{
		Fetcher: rest,
		Pusher:  pusher,
		Reconnect: service.ReconnectPolicy{
			MaxRetries:      cfg.Notices.MaxRetries,
			BaseDelay:       cfg.Notices.BaseDelay,
			MaxDelay:        cfg.Notices.MaxDelay,
			HealthyDuration: cfg.Notices.HealthyDuration,
		},
		Logger: logger,
		// A rejected token means the session is over everywhere, not just on
		// the notice surface.
		OnSessionRejected: func(ctx context.Context) {
			authSvc.Invalidate(ctx)
		},
	})
	if err != nil {
		closeRedis(redisClient, logger)
		return nil, fmt.Errorf("create notice service: %w", err)
	}

	routeGate, err := gate.New(gate.Options{
		Session: sessionCtx,
		Notices: noticeSvc,
		Logger:  logger,
	})
	if err != nil {
		closeRedis(redisClient, logger)
		return nil, fmt.Errorf("create route gate: %w", err)
	}

	return &App{
		Config:      cfg,
		Session:     sessionCtx,
		Auth:        authSvc,
		Notices:     noticeSvc,
		Gate:        routeGate,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Close releases transport resources owned by the app.
func (a *App) Close() error {
	if a.redisClient != nil {
		return a.redisClient.Close()
	}
	return nil
}

func closeRedis(client redis.UniversalClient, logger *slog.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Error("close redis failed", "error", err)
	}
}
