package projects

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/launch"
	"github.com/danieljhkim/launchdeck/internal/state"
	"github.com/danieljhkim/launchdeck/internal/stores"
)

var testNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func newHandle(t *testing.T) stores.Handle {
	t.Helper()
	dir := t.TempDir()
	db, err := stores.OpenPool(context.Background(), filepath.Join(dir, "projects.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return stores.Handle{
		Workspace: state.WorkspaceRecord{ID: uuid.New(), Name: "Test"},
		DB:        db,
	}
}

func projectDir(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func mustUpsert(t *testing.T, h stores.Handle, name, path string) Project {
	t.Helper()
	p, err := Upsert(context.Background(), h, ProjectInput{
		Name:       name,
		Path:       path,
		OpenConfig: launch.SystemDefault(),
	}, testNow)
	require.NoError(t, err)
	return p
}

func TestUpsert_Insert(t *testing.T) {
	h := newHandle(t)
	dir := projectDir(t, "demo")
	desc := "  my demo  "

	p, err := Upsert(context.Background(), h, ProjectInput{
		Name:        " Demo ",
		Path:        "\u202a" + dir + "\u202c",
		Description: &desc,
		OpenConfig:  launch.CustomCommand("code", "."),
	}, testNow)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "Demo", p.Name)
	assert.Equal(t, dir, p.Path, "bidi marks must be stripped")
	require.NotNil(t, p.Description)
	assert.Equal(t, "my demo", *p.Description)
	assert.Equal(t, launch.ModeCustomCommand, p.OpenConfig.Mode)
	assert.Equal(t, []string{"."}, p.OpenConfig.Args)
	assert.True(t, p.CreatedAt.Equal(testNow))
	assert.True(t, p.UpdatedAt.Equal(testNow))
}

func TestUpsert_Update(t *testing.T) {
	h := newHandle(t)
	ctx := context.Background()
	p := mustUpsert(t, h, "Demo", projectDir(t, "demo"))

	in := InputFrom(p)
	in.Name = "Renamed"
	later := testNow.Add(time.Hour)

	updated, err := Upsert(ctx, h, in, later)
	require.NoError(t, err)

	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.CreatedAt.Equal(testNow), "created_at must not change")
	assert.True(t, updated.UpdatedAt.Equal(later))
}

func TestUpsert_UpdateUnknownID(t *testing.T) {
	h := newHandle(t)
	id := uuid.New()

	_, err := Upsert(context.Background(), h, ProjectInput{
		ID:   &id,
		Name: "Ghost",
		Path: projectDir(t, "ghost"),
	}, testNow)
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
}

func TestUpsert_Validation(t *testing.T) {
	h := newHandle(t)
	dir := projectDir(t, "demo")

	tests := []struct {
		name string
		in   ProjectInput
	}{
		{"blank name", ProjectInput{Name: "   ", Path: dir}},
		{"missing path", ProjectInput{Name: "A", Path: filepath.Join(dir, "nope")}},
		{"empty path", ProjectInput{Name: "A", Path: "  "}},
		{"empty command", ProjectInput{Name: "A", Path: dir, OpenConfig: launch.CustomCommand("  ")}},
		{"missing executable", ProjectInput{Name: "A", Path: dir, OpenConfig: launch.CustomApp(filepath.Join(dir, "no-such-app"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Upsert(context.Background(), h, tt.in, testNow)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	projects, err := List(context.Background(), h)
	require.NoError(t, err)
	assert.Empty(t, projects, "rejected input must not be stored")
}

func TestUpsert_DuplicatePath(t *testing.T) {
	h := newHandle(t)
	dir := projectDir(t, "shared")
	mustUpsert(t, h, "First", dir)

	_, err := Upsert(context.Background(), h, ProjectInput{Name: "Second", Path: dir}, testNow)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestList_OrderedByNameCaseInsensitive(t *testing.T) {
	h := newHandle(t)
	mustUpsert(t, h, "charlie", projectDir(t, "c"))
	mustUpsert(t, h, "Alpha", projectDir(t, "a"))
	mustUpsert(t, h, "bravo", projectDir(t, "b"))

	projects, err := List(context.Background(), h)
	require.NoError(t, err)

	var names []string
	for _, p := range projects {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Alpha", "bravo", "charlie"}, names)
}

func TestList_Empty(t *testing.T) {
	projects, err := List(context.Background(), newHandle(t))
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestGet_NotFound(t *testing.T) {
	_, err := Get(context.Background(), newHandle(t), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
}

func TestDelete(t *testing.T) {
	h := newHandle(t)
	ctx := context.Background()
	p := mustUpsert(t, h, "Demo", projectDir(t, "demo"))
	require.NoError(t, RecordLaunch(ctx, h, p.ID, testNow))

	deleted, err := Delete(ctx, h, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted)

	_, err = Get(ctx, h, p.ID)
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)

	_, err = Delete(ctx, h, p.ID)
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)

	stats, err := Stats(ctx, h, testNow)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalLaunches, "history must cascade with the project")
}
