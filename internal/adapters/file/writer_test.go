package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/botforge/internal/adapters/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "bot.py")

	// 1. Creates missing directories
	require.NoError(t, file.WriteAtomic(path, []byte("first\n"), 0644))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(got))

	// 2. Overwrites
	require.NoError(t, file.WriteAtomic(path, []byte("second\n"), 0644))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(got))

	// 3. Leaves no temp files behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bot.py", entries[0].Name())
}
