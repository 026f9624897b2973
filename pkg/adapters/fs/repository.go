package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/cardforge/pkg/core"
)

// Keys of the two collections in the flat store.
const (
	KeyNotes    = "cardforge:notes"
	KeyProjects = "cardforge:projects"
)

// TempSuffix marks the staging file a write goes through before it replaces
// the key's file.
const TempSuffix = ".tmp"

// ErrReadOnly is returned by writes when the repository is opened read-only.
var ErrReadOnly = errors.New("fallback store is in read-only mode")

// Repository implements core.Backend and core.KV on a directory of flat
// files. Each key maps to one file holding the whole serialized value, read
// and written as a unit.
type Repository struct {
	Path       string
	config     Config
	serializer Serializer

	mu        sync.RWMutex
	writes    int
	lastWrite *time.Time
}

// Config holds the configuration for the flat-file repository.
type Config struct {
	Path     string
	Format   string // "json" (default) or "yaml"
	Logger   *slog.Logger
	ReadOnly bool
}

// NewRepository creates a new flat-file repository. It fails only on an
// unknown format; no I/O happens until Initialize.
func NewRepository(config Config) (*Repository, error) {
	s, err := SerializerFor(config.Format)
	if err != nil {
		return nil, err
	}
	return &Repository{
		Path:       config.Path,
		config:     config,
		serializer: s,
	}, nil
}

// Name implements core.Backend.
func (r *Repository) Name() string { return "fs" }

// Initialize creates the store directory.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("%w: failed to create fallback directory: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// LoadAll reads both collections. A missing key is an empty collection; an
// undecodable one is logged and treated as empty so the store self-heals on
// the next write.
func (r *Repository) LoadAll(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot
	if err := r.loadCollection(ctx, KeyProjects, &snap.Projects); err != nil {
		return core.Snapshot{}, err
	}
	if err := r.loadCollection(ctx, KeyNotes, &snap.Notes); err != nil {
		return core.Snapshot{}, err
	}
	if snap.Projects == nil {
		snap.Projects = []core.Project{}
	}
	if snap.Notes == nil {
		snap.Notes = []core.Note{}
	}
	return snap, nil
}

func (r *Repository) loadCollection(ctx context.Context, key string, v any) error {
	raw, ok, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := r.serializer.Unmarshal([]byte(raw), v); err != nil {
		if r.config.Logger != nil {
			r.config.Logger.Warn("discarding undecodable fallback value", "key", key, "error", err)
		}
		return nil
	}
	return nil
}

// SaveAll writes each selected collection under its key. Notes are written
// before projects so an interrupted cascade delete never leaves orphans.
func (r *Repository) SaveAll(ctx context.Context, p core.Partial) error {
	if p.WithNotes {
		notes := p.Notes
		if notes == nil {
			notes = []core.Note{}
		}
		if err := r.saveCollection(ctx, KeyNotes, notes); err != nil {
			return err
		}
	}
	if p.WithProjects {
		projects := p.Projects
		if projects == nil {
			projects = []core.Project{}
		}
		if err := r.saveCollection(ctx, KeyProjects, projects); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) saveCollection(ctx context.Context, key string, v any) error {
	data, err := r.serializer.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	return r.Set(ctx, key, string(data))
}

// Get implements core.KV.
func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(r.keyPath(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements core.KV.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.config.ReadOnly {
		return ErrReadOnly
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.replace(r.keyPath(key), []byte(value)); err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrStorageWriteFailed, key, err)
	}
	now := time.Now()
	r.writes++
	r.lastWrite = &now
	return nil
}

// replace swaps the contents of path in one rename. The staging file sits
// next to it as ".<name>.tmp"; callers hold r.mu so each key has at most one
// writer.
func (r *Repository) replace(path string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+TempSuffix)

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
	}
	return err
}

// Remove implements core.KV.
func (r *Repository) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.config.ReadOnly {
		return ErrReadOnly
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove %s: %v", core.ErrStorageWriteFailed, key, err)
	}
	return nil
}

// keyPath maps a key such as "cardforge:notes" to a safe file name.
func (r *Repository) keyPath(key string) string {
	name := strings.NewReplacer(":", "-", "/", "-", "\\", "-").Replace(key)
	return filepath.Join(r.Path, name)
}

var _ core.Backend = (*Repository)(nil)
var _ core.KV = (*Repository)(nil)
