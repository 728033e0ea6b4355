package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/campuskit/campus-client/config"
	"github.com/campuskit/campus-client/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	app, err := bootstrap.NewApp(&bootstrap.AppDeps{
		Config: &cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close app failed", "error", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return app.Gate.Run(gctx)
	})
	group.Go(func() error {
		observeTrees(gctx, app, logger)
		return nil
	})
	group.Go(func() error {
		observeToasts(gctx, app, logger)
		return nil
	})
	group.Go(func() error {
		startSession(gctx, app, &cfg, logger)
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutting down")
	return nil
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting campus client",
		"backend_url", cfg.Backend.BaseURL,
		"auth_mode", cfg.Auth.Mode,
		"notice_transport", cfg.Notices.Transport,
		"dev", cfg.IsDev)
}

// startSession restores any persisted session and, when kiosk credentials are
// configured, logs in automatically if restoration left the session
// unauthenticated.
func startSession(ctx context.Context, app *bootstrap.App, cfg *config.AppConfig, logger *slog.Logger) {
	app.Auth.Rehydrate(ctx)

	if cfg.Auth.UserID == "" {
		return
	}
	if app.Session.Current().IsAuthenticated() {
		return
	}
	logger.InfoContext(ctx, "kiosk login", "user_id", cfg.Auth.UserID)
	if err := app.Auth.Login(ctx, cfg.Auth.UserID, cfg.Auth.Password); err != nil {
		logger.ErrorContext(ctx, "kiosk login failed", "error", err)
	}
}

func observeTrees(ctx context.Context, app *bootstrap.App, logger *slog.Logger) {
	unsub, trees := app.Gate.Subscribe()
	defer unsub()

	for {
		select {
		case <-ctx.Done():
			return
		case tree, ok := <-trees:
			if !ok {
				return
			}
			logger.InfoContext(ctx, "active navigation tree", "tree", tree)
		}
	}
}

func observeToasts(ctx context.Context, app *bootstrap.App, logger *slog.Logger) {
	unsub, toasts := app.Notices.Toasts()
	defer unsub()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-toasts:
			if !ok {
				return
			}
			logger.InfoContext(ctx, "new notice", "id", n.ID, "title", n.Title)
		}
	}
}
