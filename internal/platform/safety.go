package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDirName is the temp sub-directory used by sandboxed development runs.
const DevDirName = "cardforge-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	// go run builds into the temp dir.
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDataDir determines the actual data directory. When forceTemp is
// set, a path outside the temp dir is re-rooted under <tmp>/cardforge-dev.
func ResolveDataDir(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	// Paths already under the temp dir (t.TempDir()) are trusted as is.
	clean := filepath.Clean(userPath)
	rel, err := filepath.Rel(os.TempDir(), clean)
	if err == nil && !strings.HasPrefix(rel, "..") && filepath.IsAbs(clean) {
		return clean
	}

	sub := filepath.Base(clean)
	if userPath == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}
	return filepath.Join(os.TempDir(), DevDirName, sub)
}
