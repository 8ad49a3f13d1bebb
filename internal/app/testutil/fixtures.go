package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// WriteAudioFile creates a fixture of the given size under dir and returns
// its full path.
func WriteAudioFile(t *testing.T, dir, name string, size int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0x5a}, size), 0644))
	return path
}

// WriteAudioFileAt is WriteAudioFile with a fixed mod time, for tests that
// depend on scan ordering.
func WriteAudioFileAt(t *testing.T, dir, name string, size int, modTime time.Time) string {
	t.Helper()

	path := WriteAudioFile(t, dir, name, size)
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}
