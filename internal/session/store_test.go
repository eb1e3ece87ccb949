package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() *Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &Session{
		Token:        "test-token",
		PublicKey:    "wallet-addr",
		UserID:       "user-1",
		AuthProvider: ProviderGoogle,
		CreatedAt:    now,
		ExpiresAt:    now.Add(7 * 24 * time.Hour),
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())

	sess := testSession()
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, sess.Token, loaded.Token)
	assert.Equal(t, sess.PublicKey, loaded.PublicKey)
	assert.Equal(t, sess.UserID, loaded.UserID)
	assert.Equal(t, sess.AuthProvider, loaded.AuthProvider)
	assert.True(t, sess.CreatedAt.Equal(loaded.CreatedAt))
	assert.True(t, sess.ExpiresAt.Equal(loaded.ExpiresAt))
}

func TestStore_LoadAbsentIsNotAnError(t *testing.T) {
	store := NewStore(t.TempDir())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_LoadCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0600))

	_, err := store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptSession)
}

func TestStore_LoadRecordWithoutToken(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"publicKey":"x"}`), 0600))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrCorruptSession)
}

func TestStore_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permissions are not meaningful on windows")
	}

	dir := filepath.Join(t.TempDir(), "moongate")
	store := NewStore(dir)

	require.NoError(t, store.Save(testSession()))

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm())
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := NewStore(t.TempDir())

	first := testSession()
	require.NoError(t, store.Save(first))

	second := testSession()
	second.Token = "newer-token"
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "newer-token", loaded.Token)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(testSession()))
	require.NoError(t, store.Clear())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// A second clear with nothing on disk must also succeed.
	require.NoError(t, store.Clear())
}

func TestStore_EnsureDirIdempotent(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "moongate"))

	require.NoError(t, store.EnsureDir())
	require.NoError(t, store.EnsureDir())
}
