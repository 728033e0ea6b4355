package securestore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	"github.com/campuskit/campus-client/internal/cryptoutil"
	"github.com/campuskit/campus-client/internal/ports"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "credentials.enc")
	enc, err := cryptoutil.NewAESGCMEncryptor(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)
	store, err := NewFileStore(path, enc, nil)
	require.NoError(t, err)
	return store, path
}

func testRecord() ports.Record {
	return ports.Record{
		Token: "tok-123",
		User:  domainauth.User{ID: "u1", Name: "Dana", Role: domainauth.RoleFaculty},
	}
}

func TestNewFileStoreValidation(t *testing.T) {
	_, err := NewFileStore("", cryptoutil.NoopEncryptor{}, nil)
	require.Error(t, err)

	_, err = NewFileStore("path", nil, nil)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord()))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testRecord(), got)

	// The record is encrypted at rest: the token never appears in the file.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-123")
	assert.NotContains(t, string(raw), "Dana")
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Save(context.Background(), ports.Record{})
	require.Error(t, err)
}

func TestSaveOverwritesExisting(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord()))

	next := testRecord()
	next.Token = "tok-456"
	require.NoError(t, store.Save(ctx, next))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-456", got.Token)
}

func TestLoadAbsentRecord(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestLoadUndecryptableRecordTreatedAsAbsent(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestLoadMalformedJSONTreatedAsAbsent(t *testing.T) {
	store, path := newTestStore(t)

	sealed, err := cryptoutil.NoopEncryptor{}.Encrypt([]byte("{not json"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(sealed), 0o600))

	_, err = store.Load(context.Background())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Clearing an absent record succeeds.
	require.NoError(t, store.Clear(ctx))

	require.NoError(t, store.Save(ctx, testRecord()))
	require.NoError(t, store.Clear(ctx))

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSaveRespectsCanceledContext(t *testing.T) {
	store, _ := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, store.Save(ctx, testRecord()))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestFilePermissions(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, store.Save(context.Background(), testRecord()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
