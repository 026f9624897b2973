package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// Root markers: a data directory or a config file.
const (
	DataDirName    = ".cardforge"
	ConfigFileName = "cardforge.yaml"
)

// FindRoot looks upwards from startDir for a directory holding a
// .cardforge data directory or a cardforge.yaml file, and returns its
// absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, DataDirName) || hasFile(dir, ConfigFileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
