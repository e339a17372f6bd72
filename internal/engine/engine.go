// Package engine provides the State Coordinator behind every launchdeck
// command.
//
// The Engine owns all mutable runtime state: the workspace registry document,
// the per-workspace store pools, and the table of running child processes.
// A single reader/writer lock guards all three. Reads of the registry and
// settings take the shared lock; anything that mutates the document, opens a
// pool, or touches the process table takes the exclusive lock. Every mutation
// is applied to a copy of the document and persisted before it becomes
// visible, so a failed write leaves the in-memory state unchanged.
//
// Key components:
//   - Workspaces: create, edit, activate, and resolve workspace handles
//   - Settings: read and replace user preferences and launch presets
//   - Processes: idempotent launch, stop, and the reconciliation sweep
//   - Projects: pass-through to the projects package over a resolved handle
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/danieljhkim/launchdeck/internal/clock"
	"github.com/danieljhkim/launchdeck/internal/config"
	"github.com/danieljhkim/launchdeck/internal/fsops"
	"github.com/danieljhkim/launchdeck/internal/launch"
	"github.com/danieljhkim/launchdeck/internal/procs"
	"github.com/danieljhkim/launchdeck/internal/state"
	"github.com/danieljhkim/launchdeck/internal/stores"
)

// maxParallelOpens bounds how many workspace stores Open initialises at once.
const maxParallelOpens = 4

// Options configures Open. Only Paths is required.
type Options struct {
	Paths    config.Paths
	FS       fsops.FS
	Clock    clock.Clock
	Logger   *slog.Logger
	Store    state.ConfigStore
	Launcher *launch.Launcher
}

// Engine is the State Coordinator.
// It is the main API surface called by the CLI.
type Engine struct {
	mu sync.RWMutex

	config   *state.AppConfig
	pools    *stores.Registry
	procs    *procs.Registry
	store    state.ConfigStore
	launcher *launch.Launcher
	clock    clock.Clock
	paths    config.Paths
	logger   *slog.Logger
}

// Open loads (bootstrapping and repairing as needed) the workspace registry
// and opens the store of every registered workspace.
func Open(ctx context.Context, opts Options) (*Engine, error) {
	if opts.FS == nil {
		opts.FS = fsops.NewRealFS()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Store == nil {
		opts.Store = state.NewFileConfigStore(opts.FS, opts.Paths, opts.Clock, opts.Logger)
	}
	if opts.Launcher == nil {
		opts.Launcher = launch.NewLauncher(nil)
	}

	if err := opts.Paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	cfg, err := opts.Store.Load(ctx)
	if err != nil {
		return nil, err
	}

	pools, err := openPools(ctx, cfg.Workspaces)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("engine ready", "root", opts.Paths.Root, "workspaces", len(cfg.Workspaces))

	return &Engine{
		config:   cfg,
		pools:    pools,
		procs:    procs.NewRegistry(opts.Logger),
		store:    opts.Store,
		launcher: opts.Launcher,
		clock:    opts.Clock,
		paths:    opts.Paths,
		logger:   opts.Logger,
	}, nil
}

// openPools opens every workspace store concurrently. On failure the pools
// already opened are closed again.
func openPools(ctx context.Context, workspaces []state.WorkspaceRecord) (*stores.Registry, error) {
	dbs := make([]*sql.DB, len(workspaces))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelOpens)
	for i, ws := range workspaces {
		i, ws := i, ws
		g.Go(func() error {
			db, err := stores.OpenPool(gctx, ws.DatabasePath)
			if err != nil {
				return fmt.Errorf("workspace %q: %w", ws.Name, err)
			}
			dbs[i] = db
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, db := range dbs {
			if db != nil {
				_ = db.Close()
			}
		}
		return nil, err
	}

	reg := stores.NewRegistry()
	for i, ws := range workspaces {
		reg.Put(ws.ID, dbs[i])
	}
	return reg, nil
}

// Close closes every workspace store. Running children are left alone; they
// outlive the engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pools.Close()
}

// commitLocked persists next and makes it the current document.
// Callers hold the write lock and build next from a clone of e.config.
func (e *Engine) commitLocked(ctx context.Context, next *state.AppConfig) error {
	state.EnsureActiveID(next)
	if err := e.store.Persist(ctx, next); err != nil {
		return err
	}
	e.config = next
	return nil
}
