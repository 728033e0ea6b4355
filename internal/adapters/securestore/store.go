package securestore

// Package securestore provides the file-backed encrypted credential store.
// The record is encrypted at rest with the configured Encryptor and written
// under a single fixed file name, mirroring the host platform's secure
// key-value storage contract.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/campuskit/campus-client/internal/cryptoutil"
	"github.com/campuskit/campus-client/internal/ports"
)

// FileStore implements ports.CredentialStore on the local filesystem.
type FileStore struct {
	path   string
	enc    cryptoutil.Encryptor
	logger *slog.Logger
}

// NewFileStore creates a credential store writing to the given path.
func NewFileStore(path string, enc cryptoutil.Encryptor, logger *slog.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("securestore: path is required")
	}
	if enc == nil {
		return nil, errors.New("securestore: encryptor is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, enc: enc, logger: logger}, nil
}

// Save persists the credential record. The write is atomic: the encrypted
// payload lands in a temp file that is renamed over the target, so a crash
// mid-write never leaves a torn record.
func (s *FileStore) Save(ctx context.Context, rec ports.Record) error {
	if rec.Token == "" {
		return errors.New("securestore: token cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal credential record: %w", err)
	}
	sealed, err := s.enc.Encrypt(data)
	if err != nil {
		return fmt.Errorf("encrypt credential record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp credential file: %w", err)
	}
	if _, err := tmp.WriteString(sealed); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write credential record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp credential file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("install credential record: %w", err)
	}
	return nil
}

// Load reads the persisted record. A missing file yields ports.ErrNotFound;
// first launch is not an error condition.
func (s *FileStore) Load(ctx context.Context) (ports.Record, error) {
	if err := ctx.Err(); err != nil {
		return ports.Record{}, err
	}

	sealed, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ports.Record{}, ports.ErrNotFound
		}
		return ports.Record{}, fmt.Errorf("read credential record: %w", err)
	}

	data, err := s.enc.Decrypt(string(sealed))
	if err != nil {
		// An undecryptable record is as good as absent, but worth a log line.
		s.logger.Warn("stored credential record is unreadable, treating as absent", "error", err)
		return ports.Record{}, ports.ErrNotFound
	}

	var rec ports.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("stored credential record is malformed, treating as absent", "error", err)
		return ports.Record{}, ports.ErrNotFound
	}
	if rec.Token == "" {
		return ports.Record{}, ports.ErrNotFound
	}
	return rec, nil
}

// Clear removes the persisted record. Clearing an absent record succeeds.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credential record: %w", err)
	}
	return nil
}

var _ ports.CredentialStore = (*FileStore)(nil)
