package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureTrustedID_GeneratesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trusted_id")

	id, err := EnsureTrustedID(path)
	require.NoError(t, err)
	assert.Len(t, id, 32)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, id, string(onDisk))
}

func TestEnsureTrustedID_StableAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trusted_id")

	first, err := EnsureTrustedID(path)
	require.NoError(t, err)

	second, err := EnsureTrustedID(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEnsureTrustedID_ReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trusted_id")
	require.NoError(t, os.WriteFile(path, []byte("abcdefabcdefabcdefabcdefabcdefab\n"), 0o600))

	id, err := EnsureTrustedID(path)
	require.NoError(t, err)
	assert.Equal(t, "abcdefabcdefabcdefabcdefabcdefab", id)
}

func TestEnsureTrustedID_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "trusted_id")

	id, err := EnsureTrustedID(path)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestEnsureTrustedID_EmptyPathDisabled(t *testing.T) {
	id, err := EnsureTrustedID("")
	require.NoError(t, err)
	assert.Empty(t, id)
}
