package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDevRun(t *testing.T) {
	assert.True(t, IsDevRun(), "test binaries count as development runs")
}

func TestResolveDataDir(t *testing.T) {
	tmp := t.TempDir()

	t.Run("not forced keeps path", func(t *testing.T) {
		assert.Equal(t, "/srv/cardforge", ResolveDataDir("/srv/cardforge", false))
		assert.Equal(t, ".", ResolveDataDir("", false))
	})

	t.Run("temp paths are trusted", func(t *testing.T) {
		assert.Equal(t, filepath.Clean(tmp), ResolveDataDir(tmp, true))
	})

	t.Run("other paths are re-rooted", func(t *testing.T) {
		got := ResolveDataDir("/srv/cardforge", true)
		assert.Equal(t, filepath.Join(os.TempDir(), DevDirName, "cardforge"), got)
	})

	t.Run("empty path gets a default name", func(t *testing.T) {
		got := ResolveDataDir("", true)
		assert.Equal(t, filepath.Join(os.TempDir(), DevDirName, "default"), got)
	})
}
