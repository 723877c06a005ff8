package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
}

func TestSetPersistsAndClearRemoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("tok-1", "a@b.c"))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", reopened.Token())
	assert.Equal(t, "a@b.c", reopened.Email())

	require.NoError(t, reopened.Clear())
	assert.False(t, reopened.Authenticated())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, reopened.Clear())
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}
