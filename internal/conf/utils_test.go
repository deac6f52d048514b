package conf

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: changes the working directory.
func TestFindConfigFile(t *testing.T) {
	if runtime.GOOS == osWindows {
		t.Skip("config search does not include the working directory on Windows")
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config.yaml"), []byte("debug: false\n"), 0o644))

	path, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))

	// With the file present the current directory becomes the only
	// candidate config path.
	paths, err := GetDefaultConfigPaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, paths)
}
