package bootstrap

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/campuskit/campus-client/config"
	"github.com/campuskit/campus-client/internal/adapters/devauth"
	"github.com/campuskit/campus-client/internal/adapters/redisnotice"
	"github.com/campuskit/campus-client/internal/adapters/restapi"
	"github.com/campuskit/campus-client/internal/adapters/securestore"
	"github.com/campuskit/campus-client/internal/adapters/sse"
	"github.com/campuskit/campus-client/internal/cryptoutil"
	"github.com/campuskit/campus-client/internal/ports"
)

// resolveEncryptor builds the at-rest encryptor from the configured key.
// An empty key degrades to the marked plaintext encoding with a warning so
// development setups work out of the box.
//
//nolint:ireturn // Returning Encryptor interface is required for store injection.
func resolveEncryptor(key string, logger *slog.Logger) (cryptoutil.Encryptor, error) {
	if key == "" {
		if logger != nil {
			logger.Warn("no credential encryption key configured; using noop encryptor")
		}
		return cryptoutil.NoopEncryptor{}, nil
	}
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("decode credential encryption key: %w", err)
	}
	return cryptoutil.NewAESGCMEncryptor(raw)
}

// BuildCredentialStore creates the encrypted file-backed credential store.
//
//nolint:ireturn // Callers consume the port, not the concrete store.
func BuildCredentialStore(cfg config.CredentialsConfig, logger *slog.Logger) (ports.CredentialStore, error) {
	enc, err := resolveEncryptor(cfg.EncryptionKey, logger)
	if err != nil {
		return nil, err
	}
	store, err := securestore.NewFileStore(cfg.Path, enc, logger)
	if err != nil {
		return nil, fmt.Errorf("create credential store: %w", err)
	}
	return store, nil
}

// BuildRESTClient creates the backend REST client.
func BuildRESTClient(cfg config.BackendConfig, logger *slog.Logger) (*restapi.Client, error) {
	client, err := restapi.NewClient(restapi.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create rest client: %w", err)
	}
	return client, nil
}

// BuildAuthAPI selects the auth backend per the configured mode.
//
//nolint:ireturn // Callers consume the port, not the concrete API.
func BuildAuthAPI(cfg config.AuthConfig, rest *restapi.Client, logger *slog.Logger) (ports.AuthAPI, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		api, err := devauth.NewAPI(devauth.Config{
			UserID: cfg.Mock.UserID,
			Name:   cfg.Mock.Name,
			Role:   cfg.Mock.Role,
			Token:  cfg.Mock.Token,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth api: %w", err)
		}
		if logger != nil {
			logger.Warn("using mock authentication", "user_id", cfg.Mock.UserID)
		}
		return api, nil
	case config.AuthModePassword:
		return rest, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", cfg.Mode)
	}
}

// BuildNoticePusher selects the push transport. The returned redis client is
// non-nil only for the redis transport; the caller owns closing it.
//
//nolint:ireturn // Callers consume the port, not the concrete pusher.
func BuildNoticePusher(
	cfg config.NoticesConfig,
	backend config.BackendConfig,
	logger *slog.Logger,
) (ports.NoticePusher, redis.UniversalClient, error) {
	switch cfg.Transport {
	case config.NoticeTransportRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pusher, err := redisnotice.NewPusher(client, cfg.RedisChannel, logger)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("create redis pusher: %w", err)
		}
		return pusher, client, nil
	case config.NoticeTransportSSE:
		pusher, err := sse.NewPusher(sse.Options{
			BaseURL: backend.BaseURL,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create sse pusher: %w", err)
		}
		return pusher, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported notice transport: %q", cfg.Transport)
	}
}
