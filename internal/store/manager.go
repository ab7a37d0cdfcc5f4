// Package store manages the per-project SQLite databases.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/store/sqlite"
)

const dbExt = ".db"

// Manager handles multiple SQLite database connections, one per project.
type Manager struct {
	basePath string
	dbs      map[string]*sql.DB
	mu       sync.RWMutex
}

// NewManager creates a new database manager.
// basePath is the directory where project databases are stored (e.g., ~/.tasktree/projects/).
func NewManager(basePath string) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return &Manager{
		basePath: basePath,
		dbs:      make(map[string]*sql.DB),
	}, nil
}

// BasePath returns the directory holding the project databases.
func (m *Manager) BasePath() string {
	return m.basePath
}

func (m *Manager) dbPath(project string) string {
	return filepath.Join(m.basePath, project+dbExt)
}

// Exists reports whether a database exists for the project.
func (m *Manager) Exists(project string) (bool, error) {
	if err := domain.ValidateProjectName(project); err != nil {
		return false, err
	}
	_, err := os.Stat(m.dbPath(project))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat project database: %w", err)
	}
	return true, nil
}

func (m *Manager) open(project string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", m.dbPath(project)+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Create creates the database of a new project and writes its metadata.
func (m *Manager) Create(ctx context.Context, project domain.Project) (*sqlite.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := m.Exists(project.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewProjectExistsError(project.Name)
	}

	db, err := m.open(project.Name)
	if err != nil {
		return nil, err
	}
	store := sqlite.NewStore(db)
	if err := store.Init(ctx, project); err != nil {
		db.Close()
		m.removeFiles(project.Name)
		return nil, fmt.Errorf("failed to write project metadata: %w", err)
	}

	m.dbs[project.Name] = db
	return store, nil
}

// Open returns the store of an existing project.
func (m *Manager) Open(project string) (*sqlite.Store, error) {
	m.mu.RLock()
	if db, ok := m.dbs[project]; ok {
		m.mu.RUnlock()
		return sqlite.NewStore(db), nil
	}
	m.mu.RUnlock()

	exists, err := m.Exists(project)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewProjectNotFoundError(project)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if db, ok := m.dbs[project]; ok {
		return sqlite.NewStore(db), nil
	}

	db, err := m.open(project)
	if err != nil {
		return nil, err
	}
	m.dbs[project] = db
	return sqlite.NewStore(db), nil
}

// Remove closes the project's connection and deletes its database files.
func (m *Manager) Remove(project string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := m.Exists(project)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewProjectNotFoundError(project)
	}

	if db, ok := m.dbs[project]; ok {
		db.Close()
		delete(m.dbs, project)
	}
	return m.removeFiles(project)
}

func (m *Manager) removeFiles(project string) error {
	base := m.dbPath(project)
	for _, p := range []string{base, base + "-wal", base + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", filepath.Base(p), err)
		}
	}
	return nil
}

// List returns the names of all projects, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, dbExt) {
			projects = append(projects, strings.TrimSuffix(name, dbExt))
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// Close closes all database connections.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for project, db := range m.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", project, err))
		}
	}
	m.dbs = make(map[string]*sql.DB)

	return errors.Join(errs...)
}
