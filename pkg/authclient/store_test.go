package authclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-esg-platform/pkg/role"
)

func writeFile(path string, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func TestFileStore_RoundTripAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	p, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Persisted{}, p)

	saved := Persisted{Token: "tok", User: &Profile{ID: "u1", Role: role.NGO, Email: "n@example.com"}}
	require.NoError(t, store.Save(saved))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"token"`)
	assert.Contains(t, string(raw), `"user"`)

	require.NoError(t, store.Clear())
	assert.NoFileExists(t, path)
	require.NoError(t, store.Clear())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files left behind")
}
