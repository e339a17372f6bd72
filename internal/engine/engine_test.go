package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/launchdeck/internal/clock"
	"github.com/danieljhkim/launchdeck/internal/config"
	"github.com/danieljhkim/launchdeck/internal/launch"
	"github.com/danieljhkim/launchdeck/internal/state"
)

var testNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

type recordingOpener struct {
	mu     sync.Mutex
	opened []string
}

func (o *recordingOpener) Open(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, path)
	return nil
}

// memStore is a ConfigStore that keeps the document in memory and can be
// told to fail persists.
type memStore struct {
	mu       sync.Mutex
	cfg      *state.AppConfig
	persists int
	fail     error
}

func (s *memStore) Load(ctx context.Context) (*state.AppConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone(), nil
}

func (s *memStore) Persist(ctx context.Context, cfg *state.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.persists++
	s.cfg = cfg.Clone()
	return nil
}

type testEnv struct {
	engine *Engine
	paths  config.Paths
	clock  *clock.FakeClock
	opener *recordingOpener
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestEngine(t *testing.T, store state.ConfigStore) *testEnv {
	t.Helper()
	env := &testEnv{
		paths:  config.NewPaths(t.TempDir()),
		clock:  clock.NewFakeClock(testNow),
		opener: &recordingOpener{},
	}
	e, err := Open(context.Background(), Options{
		Paths:    env.paths,
		Clock:    env.clock,
		Logger:   discardLogger(),
		Store:    store,
		Launcher: launch.NewLauncher(env.opener),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	env.engine = e
	return env
}

// emptyStore returns a memStore holding a document with no workspaces.
func emptyStore() *memStore {
	return &memStore{cfg: &state.AppConfig{
		Workspaces: []state.WorkspaceRecord{},
		Settings:   state.DefaultSettings(),
	}}
}

func projectDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX utilities")
	}
}
