package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
)

func TestPromptStore_LoadDefault(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptReadingSystem)

	require.NoError(t, err)
	assert.Contains(t, prompt, "tarot")
}

func TestPromptStore_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptReading)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "reading.txt"))
	assert.FileExists(t, filepath.Join(dir, "reading_system.txt"))
}

func TestPromptStore_UserOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "My custom reading prompt: %s %s %q"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reading.txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptReading)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")

	assert.Error(t, err)
}

func TestPromptStore_Reload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Prime the cache with the default.
	first, err := store.Load(driven.PromptReadingSystem)
	require.NoError(t, err)

	// Edit the file on disk, then reload.
	edited := "You read playing cards now."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reading_system.txt"), []byte(edited), 0600))
	store.Reload()

	second, err := store.Load(driven.PromptReadingSystem)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, edited, second)
}
