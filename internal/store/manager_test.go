package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/store"
)

func newTestManager(t *testing.T) (*store.Manager, string) {
	t.Helper()
	dir := t.TempDir()
	manager, err := store.NewManager(dir)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager, dir
}

func newProject(name string) domain.Project {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.Project{Name: name, Description: "test project", CreatedAt: now, UpdatedAt: now}
}

func TestManager_CreateAndOpen(t *testing.T) {
	manager, dir := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Create(ctx, newProject("alpha"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "alpha.db"))

	s, err := manager.Open("alpha")
	require.NoError(t, err)
	state, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alpha", state.Project.Name)
	assert.Equal(t, "test project", state.Project.Description)
	assert.Equal(t, domain.TaskID(1), state.NextID)
	assert.Empty(t, state.Tasks)
	assert.Empty(t, state.Dependencies)
}

func TestManager_CreateExisting(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Create(ctx, newProject("alpha"))
	require.NoError(t, err)

	_, err = manager.Create(ctx, newProject("alpha"))
	assert.True(t, domain.HasCode(err, domain.ErrCodeProjectExists))
}

func TestManager_OpenMissing(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Open("ghost")
	assert.True(t, domain.HasCode(err, domain.ErrCodeProjectNotFound))
}

func TestManager_InvalidName(t *testing.T) {
	manager, _ := newTestManager(t)

	for _, name := range []string{"", "../escape", "a/b", "has space"} {
		_, err := manager.Open(name)
		assert.True(t, domain.HasCode(err, domain.ErrCodeValidationFailed), "name %q", name)
		_, err = manager.Create(context.Background(), newProject(name))
		assert.True(t, domain.HasCode(err, domain.ErrCodeValidationFailed), "name %q", name)
	}
}

func TestManager_Remove(t *testing.T) {
	manager, dir := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Create(ctx, newProject("alpha"))
	require.NoError(t, err)

	require.NoError(t, manager.Remove("alpha"))
	assert.NoFileExists(t, filepath.Join(dir, "alpha.db"))
	assert.NoFileExists(t, filepath.Join(dir, "alpha.db-wal"))

	_, err = manager.Open("alpha")
	assert.True(t, domain.HasCode(err, domain.ErrCodeProjectNotFound))

	err = manager.Remove("alpha")
	assert.True(t, domain.HasCode(err, domain.ErrCodeProjectNotFound))

	// The name is free again.
	_, err = manager.Create(ctx, newProject("alpha"))
	require.NoError(t, err)
}

func TestManager_List(t *testing.T) {
	manager, dir := newTestManager(t)
	ctx := context.Background()

	projects, err := manager.List()
	require.NoError(t, err)
	assert.Empty(t, projects)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := manager.Create(ctx, newProject(name))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.db"), 0755))

	projects, err = manager.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, projects)
}

func TestManager_ReopenAfterClose(t *testing.T) {
	manager, dir := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Create(ctx, newProject("alpha"))
	require.NoError(t, err)
	require.NoError(t, manager.Close())

	other, err := store.NewManager(dir)
	require.NoError(t, err)
	defer other.Close()

	s, err := other.Open("alpha")
	require.NoError(t, err)
	state, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alpha", state.Project.Name)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Create(ctx, newProject("alpha"))
	require.NoError(t, err)
	require.NoError(t, manager.Close())

	// Opening runs migrations again; the recorded version must stop a rerun.
	_, err = manager.Open("alpha")
	require.NoError(t, err)
}
