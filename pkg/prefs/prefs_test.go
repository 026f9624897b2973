package prefs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cardforge/pkg/adapters/fs"
	"github.com/aretw0/cardforge/pkg/adapters/memory"
	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/prefs"
)

func TestLoad_Defaults(t *testing.T) {
	p := prefs.New(memory.New("kv")).Load(context.Background())
	assert.Equal(t, prefs.Defaults(), p)
	assert.Equal(t, core.ThemeSystem, p.Theme)
	assert.Equal(t, core.ViewGrid, p.ViewMode)
	assert.Empty(t, p.CurrentProjectID)
}

func TestSetAndLoad(t *testing.T) {
	ctx := context.Background()
	s := prefs.New(memory.New("kv"))

	require.NoError(t, s.SetTheme(ctx, core.ThemeDark))
	require.NoError(t, s.SetViewMode(ctx, core.ViewList))
	require.NoError(t, s.SetCurrentProject(ctx, "p1"))

	p := s.Load(ctx)
	assert.Equal(t, core.ThemeDark, p.Theme)
	assert.Equal(t, core.ViewList, p.ViewMode)
	assert.Equal(t, "p1", p.CurrentProjectID)
}

func TestSetCurrentProject_EmptyRemovesSlot(t *testing.T) {
	ctx := context.Background()
	kv := memory.New("kv")
	s := prefs.New(kv)

	require.NoError(t, s.SetCurrentProject(ctx, "p1"))
	require.NoError(t, s.SetCurrentProject(ctx, ""))

	_, ok, err := kv.Get(ctx, prefs.KeyCurrentProject)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok = s.CurrentProject(ctx)
	assert.False(t, ok)
}

func TestToggleViewMode(t *testing.T) {
	ctx := context.Background()
	s := prefs.New(memory.New("kv"))

	m, err := s.ToggleViewMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.ViewList, m)

	m, err = s.ToggleViewMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.ViewGrid, m)
}

func TestInvalidValues(t *testing.T) {
	ctx := context.Background()
	kv := memory.New("kv")
	s := prefs.New(kv)

	err := s.SetTheme(ctx, core.Theme("neon"))
	assert.True(t, errors.Is(err, core.ErrValidationRejected))
	err = s.SetViewMode(ctx, core.ViewMode("table"))
	assert.True(t, errors.Is(err, core.ErrValidationRejected))

	// Garbage already in the store is ignored on load.
	require.NoError(t, kv.Set(ctx, prefs.KeyTheme, "neon"))
	assert.Equal(t, core.ThemeSystem, s.Load(ctx).Theme)
}

func TestOnFlatFileStore(t *testing.T) {
	ctx := context.Background()
	repo, err := fs.NewRepository(fs.Config{Path: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(ctx))

	require.NoError(t, prefs.New(repo).SetTheme(ctx, core.ThemeLight))
	assert.Equal(t, core.ThemeLight, prefs.New(repo).Load(ctx).Theme)
}
