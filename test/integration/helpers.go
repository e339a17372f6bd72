package integration

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/launchdeck/internal/clock"
	"github.com/danieljhkim/launchdeck/internal/config"
	"github.com/danieljhkim/launchdeck/internal/engine"
	"github.com/danieljhkim/launchdeck/internal/fsops"
	"github.com/danieljhkim/launchdeck/internal/launch"
	"github.com/danieljhkim/launchdeck/internal/state"
)

var testNow = time.Date(2024, 11, 4, 8, 15, 0, 0, time.UTC)

// recordingOpener stands in for the OS handler so system_default launches
// do not open windows during tests.
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

func (o *recordingOpener) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.opened)
}

// testEnv is one data root shared by successive engine instances.
type testEnv struct {
	paths  config.Paths
	clock  *clock.FakeClock
	opener *recordingOpener
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		paths:  config.NewPaths(t.TempDir()),
		clock:  clock.NewFakeClock(testNow),
		opener: &recordingOpener{},
	}
}

// open starts an engine on the env's data root with the real file store.
func (env *testEnv) open(t *testing.T) *engine.Engine {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fs := fsops.NewRealFS()

	eng, err := engine.Open(context.Background(), engine.Options{
		Paths:    env.paths,
		FS:       fs,
		Clock:    env.clock,
		Logger:   logger,
		Store:    state.NewFileConfigStore(fs, env.paths, env.clock, logger),
		Launcher: launch.NewLauncher(env.opener),
	})
	if err != nil {
		t.Fatalf("engine.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

// makeDir creates a project directory under a fresh temp dir.
func makeDir(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	return dir
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
