package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	// /tmp/
	//   repo/ (.cardforge)
	//     subdir/
	//       nested/
	//   configured/ (cardforge.yaml)
	//     sub/
	//   empty/

	baseDir := t.TempDir()
	repoDir := filepath.Join(baseDir, "repo")
	subDir := filepath.Join(repoDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	configuredDir := filepath.Join(baseDir, "configured")
	configuredSub := filepath.Join(configuredDir, "sub")
	emptyDir := filepath.Join(baseDir, "empty")

	for _, d := range []string{nestedDir, configuredSub, emptyDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.Mkdir(filepath.Join(repoDir, DataDirName), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configuredDir, ConfigFileName), []byte("data_dir: .cardforge\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{
			name:      "Start at Root",
			startPath: repoDir,
			wantRoot:  repoDir,
		},
		{
			name:      "Start in Subdir",
			startPath: subDir,
			wantRoot:  repoDir,
		},
		{
			name:      "Start Nested Deeply",
			startPath: nestedDir,
			wantRoot:  repoDir,
		},
		{
			name:      "Config File Marker",
			startPath: configuredSub,
			wantRoot:  configuredDir,
		},
		{
			name:      "No Root Found",
			startPath: emptyDir,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindRoot() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if got != "" && filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
				t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}
