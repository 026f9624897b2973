// Package sqlite implements the structured primary backend on an embedded
// SQLite database accessed through gorm. Each collection lives in its own
// table keyed by record id.
package sqlite

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

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aretw0/cardforge/pkg/core"
)

// MemoryPath opens a private in-memory database, useful in tests.
const MemoryPath = ":memory:"

const batchSize = 100

var errNotInitialized = errors.New("sqlite repository not initialized")

// Config holds the configuration for the SQLite repository.
type Config struct {
	// Path is the database file. MemoryPath selects an in-memory database.
	Path   string
	Logger *slog.Logger
	// Debug echoes SQL statements through gorm's logger.
	Debug bool
}

// Repository implements core.Backend on SQLite.
type Repository struct {
	config Config

	mu        sync.RWMutex
	db        *gorm.DB
	writes    int
	lastWrite *time.Time
	lastError string
}

// NewRepository creates a repository. No I/O happens until Initialize.
func NewRepository(config Config) *Repository {
	return &Repository{config: config}
}

// Name implements core.Backend.
func (r *Repository) Name() string { return "sqlite" }

// Initialize opens the database and migrates the schema.
func (r *Repository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return nil
	}

	dsn := r.config.Path
	if dsn == "" {
		return fmt.Errorf("%w: empty database path", core.ErrStorageUnavailable)
	}
	if dsn != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
		}
		dsn += "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	logLevel := logger.Silent
	if r.config.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to open database: %v", core.ErrStorageUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("%w: failed to get underlying sql.DB: %v", core.ErrStorageUnavailable, err)
	}
	// One connection: SQLite serializes writers anyway, and an in-memory
	// database exists only per connection.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	if err := db.WithContext(ctx).AutoMigrate(&projectRecord{}, &noteRecord{}); err != nil {
		sqlDB.Close()
		return fmt.Errorf("%w: failed to migrate schema: %v", core.ErrStorageUnavailable, err)
	}

	r.db = db
	if r.config.Logger != nil {
		r.config.Logger.Debug("sqlite store ready", "path", r.config.Path)
	}
	return nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	r.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repository) handle() (*gorm.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, errNotInitialized)
	}
	return r.db, nil
}

// LoadAll reads both tables in insertion order.
func (r *Repository) LoadAll(ctx context.Context) (core.Snapshot, error) {
	db, err := r.handle()
	if err != nil {
		return core.Snapshot{}, err
	}

	var projects []projectRecord
	if err := db.WithContext(ctx).Order("rowid").Find(&projects).Error; err != nil {
		return core.Snapshot{}, fmt.Errorf("failed to load projects: %w", err)
	}
	var notes []noteRecord
	if err := db.WithContext(ctx).Order("rowid").Find(&notes).Error; err != nil {
		return core.Snapshot{}, fmt.Errorf("failed to load notes: %w", err)
	}

	snap := core.Snapshot{
		Projects: make([]core.Project, 0, len(projects)),
		Notes:    make([]core.Note, 0, len(notes)),
	}
	for _, p := range projects {
		snap.Projects = append(snap.Projects, p.toProject())
	}
	for _, n := range notes {
		snap.Notes = append(snap.Notes, n.toNote())
	}
	return snap, nil
}

// SaveAll replaces every selected table inside a single transaction: the
// table is cleared and every record of the new collection inserted.
func (r *Repository) SaveAll(ctx context.Context, p core.Partial) error {
	if p.Empty() {
		return nil
	}
	db, err := r.handle()
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if p.WithNotes {
			if err := all.Delete(&noteRecord{}).Error; err != nil {
				return fmt.Errorf("clear notes: %w", err)
			}
			if len(p.Notes) > 0 {
				records := make([]noteRecord, len(p.Notes))
				for i, n := range p.Notes {
					records[i] = toNoteRecord(n)
				}
				if err := tx.CreateInBatches(records, batchSize).Error; err != nil {
					return fmt.Errorf("insert notes: %w", err)
				}
			}
		}
		if p.WithProjects {
			if err := all.Delete(&projectRecord{}).Error; err != nil {
				return fmt.Errorf("clear projects: %w", err)
			}
			if len(p.Projects) > 0 {
				records := make([]projectRecord, len(p.Projects))
				for i, pr := range p.Projects {
					records[i] = toProjectRecord(pr)
				}
				if err := tx.CreateInBatches(records, batchSize).Error; err != nil {
					return fmt.Errorf("insert projects: %w", err)
				}
			}
		}
		return nil
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.lastError = err.Error()
		return fmt.Errorf("%w: %v", core.ErrStorageWriteFailed, err)
	}
	now := time.Now()
	r.writes++
	r.lastWrite = &now
	r.lastError = ""
	return nil
}

// Probe runs a trivial query to check the database is still usable.
func (r *Repository) Probe(ctx context.Context) error {
	db, err := r.handle()
	if err != nil {
		return err
	}
	var one int
	if err := db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// String implements fmt.Stringer.
func (r *Repository) String() string {
	return "sqlite(" + strings.TrimSpace(r.config.Path) + ")"
}

var _ core.Backend = (*Repository)(nil)
var _ core.Prober = (*Repository)(nil)
