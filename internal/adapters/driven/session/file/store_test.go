package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

func newStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := NewSessionStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSessionStore_LoadEmpty(t *testing.T) {
	store := newStore(t)

	session, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionStore_SaveLoadRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	saved := domain.Session{
		AccessToken:   "tok",
		RefreshToken:  "refresh",
		Profile:       domain.Profile{Name: "Ada", Email: "ada@example.com", SubjectID: "sub-1"},
		Authenticated: true,
		Handles:       domain.ResourceHandles{FolderID: "folder-1", SpreadsheetID: "sheet-1"},
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.AccessToken, loaded.AccessToken)
	assert.Equal(t, saved.Profile, loaded.Profile)
	assert.Equal(t, saved.Handles, loaded.Handles)
	assert.True(t, loaded.Authenticated)
}

func TestSessionStore_CorruptFileDiscarded(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0600))

	session, err := store.Load(context.Background())

	require.NoError(t, err, "corrupt storage reads as signed out, not as a failure")
	assert.Nil(t, session)
}

func TestSessionStore_Clear(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{AccessToken: "tok"}))
	require.NoError(t, store.Clear(ctx))

	session, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	// Clearing an already-empty store succeeds.
	assert.NoError(t, store.Clear(ctx))
}

func TestSessionStore_FilePermissions(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(context.Background(), domain.Session{AccessToken: "secret"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewSessionStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "arcana")

	store, err := NewSessionStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "session.json"), store.Path())
}
