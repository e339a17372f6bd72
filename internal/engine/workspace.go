package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/launch"
	"github.com/danieljhkim/launchdeck/internal/state"
	"github.com/danieljhkim/launchdeck/internal/stores"
)

// ListWorkspaces returns every registered workspace in registration order.
func (e *Engine) ListWorkspaces() []state.WorkspaceRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]state.WorkspaceRecord, len(e.config.Workspaces))
	for i, ws := range e.config.Workspaces {
		out[i] = ws.Clone()
	}
	return out
}

// ActiveWorkspace returns the active workspace, or nil when none is set.
func (e *Engine) ActiveWorkspace() *state.WorkspaceRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.config.ActiveWorkspaceID == nil {
		return nil
	}
	ws, ok := e.config.FindWorkspace(*e.config.ActiveWorkspaceID)
	if !ok {
		return nil
	}
	rec := ws.Clone()
	return &rec
}

// CreateWorkspace registers a new workspace and opens its store.
// Algorithm steps:
// 1. Validate the name (non-empty, unique case-insensitively)
// 2. Resolve the store path (explicit or the default per-workspace location)
// 3. Open the store and initialise its schema
// 4. Append the record, activating it if it is the first, and persist
// 5. Register the pool; on a failed persist the pool is closed instead
func (e *Engine) CreateWorkspace(ctx context.Context, in state.WorkspaceInput) (state.WorkspaceRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Step 1: Validate the name
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return state.WorkspaceRecord{}, fmt.Errorf("%w: workspace name cannot be empty", apperr.ErrValidation)
	}
	if e.config.NameTaken(name, uuid.Nil) {
		return state.WorkspaceRecord{}, fmt.Errorf("%w: a workspace named %q already exists", apperr.ErrValidation, name)
	}

	// Step 2: Resolve the store path
	id := uuid.New()
	dbPath := e.paths.WorkspaceDBPath(id.String())
	if in.DatabasePath != nil {
		explicit := launch.SanitizePath(*in.DatabasePath)
		if explicit == "" {
			return state.WorkspaceRecord{}, fmt.Errorf("%w: database path cannot be empty", apperr.ErrValidation)
		}
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return state.WorkspaceRecord{}, fmt.Errorf("%w: invalid database path %s: %v", apperr.ErrValidation, explicit, err)
		}
		dbPath = abs
	}
	for _, ws := range e.config.Workspaces {
		if ws.DatabasePath == dbPath {
			return state.WorkspaceRecord{}, fmt.Errorf("%w: workspace %q already uses %s", apperr.ErrValidation, ws.Name, dbPath)
		}
	}

	// Step 3: Open the store
	db, err := stores.OpenPool(ctx, dbPath)
	if err != nil {
		return state.WorkspaceRecord{}, err
	}

	// Step 4: Append and persist
	now := e.clock.Now()
	rec := state.WorkspaceRecord{
		ID:           id,
		Name:         name,
		Description:  state.TrimOptional(in.Description),
		DatabasePath: dbPath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	next := e.config.Clone()
	next.Workspaces = append(next.Workspaces, rec)
	if err := e.commitLocked(ctx, next); err != nil {
		_ = db.Close()
		return state.WorkspaceRecord{}, err
	}

	// Step 5: Register the pool
	e.pools.Put(id, db)

	e.logger.Info("created workspace", "id", id, "name", name, "db", dbPath)
	return rec.Clone(), nil
}

// SetActiveWorkspace makes id the active workspace.
func (e *Engine) SetActiveWorkspace(ctx context.Context, id uuid.UUID) (state.WorkspaceRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ws, ok := e.config.FindWorkspace(id)
	if !ok {
		return state.WorkspaceRecord{}, fmt.Errorf("%w: %s", apperr.ErrWorkspaceNotFound, id)
	}
	rec := ws.Clone()

	if _, err := e.pools.Ensure(ctx, rec); err != nil {
		return state.WorkspaceRecord{}, err
	}

	next := e.config.Clone()
	activeID := id
	next.ActiveWorkspaceID = &activeID
	if err := e.commitLocked(ctx, next); err != nil {
		return state.WorkspaceRecord{}, err
	}

	e.logger.Info("activated workspace", "id", id, "name", rec.Name)
	return rec, nil
}

// UpdateWorkspace edits a workspace's name and/or description.
func (e *Engine) UpdateWorkspace(ctx context.Context, id uuid.UUID, upd state.WorkspaceUpdate) (state.WorkspaceRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.config.FindWorkspace(id); !ok {
		return state.WorkspaceRecord{}, fmt.Errorf("%w: %s", apperr.ErrWorkspaceNotFound, id)
	}

	next := e.config.Clone()
	ws, _ := next.FindWorkspace(id)

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return state.WorkspaceRecord{}, fmt.Errorf("%w: workspace name cannot be empty", apperr.ErrValidation)
		}
		if next.NameTaken(name, id) {
			return state.WorkspaceRecord{}, fmt.Errorf("%w: a workspace named %q already exists", apperr.ErrValidation, name)
		}
		ws.Name = name
	}
	if upd.Description != nil {
		ws.Description = state.TrimOptional(upd.Description)
	}
	ws.UpdatedAt = e.clock.Now()
	rec := ws.Clone()

	if err := e.commitLocked(ctx, next); err != nil {
		return state.WorkspaceRecord{}, err
	}

	e.logger.Info("updated workspace", "id", id, "name", rec.Name)
	return rec, nil
}

// Handle resolves a workspace (the active one when id is nil) to a handle
// for the projects package. The handle is a copy; the engine's lock is not
// held while the caller uses it.
func (e *Engine) Handle(ctx context.Context, id *uuid.UUID) (stores.Handle, error) {
	e.mu.RLock()
	rec, err := e.resolveLocked(id)
	if err != nil {
		e.mu.RUnlock()
		return stores.Handle{}, err
	}
	if h, ok := e.pools.Handle(rec); ok {
		e.mu.RUnlock()
		return h, nil
	}
	e.mu.RUnlock()

	// The pool is missing; opening it needs the write lock.
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handleLocked(ctx, id)
}

// handleLocked is Handle for callers already holding the write lock.
func (e *Engine) handleLocked(ctx context.Context, id *uuid.UUID) (stores.Handle, error) {
	rec, err := e.resolveLocked(id)
	if err != nil {
		return stores.Handle{}, err
	}
	if _, err := e.pools.Ensure(ctx, rec); err != nil {
		return stores.Handle{}, err
	}
	h, _ := e.pools.Handle(rec)
	return h, nil
}

func (e *Engine) resolveLocked(id *uuid.UUID) (state.WorkspaceRecord, error) {
	if id == nil {
		if e.config.ActiveWorkspaceID == nil {
			return state.WorkspaceRecord{}, ErrNoActiveWorkspace
		}
		id = e.config.ActiveWorkspaceID
	}
	ws, ok := e.config.FindWorkspace(*id)
	if !ok {
		return state.WorkspaceRecord{}, fmt.Errorf("%w: %s", apperr.ErrWorkspaceNotFound, *id)
	}
	return ws.Clone(), nil
}

// LookupWorkspace finds a workspace by id or by name, case-insensitively.
func (e *Engine) LookupWorkspace(ref string) (state.WorkspaceRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		if ws, ok := e.config.FindWorkspace(id); ok {
			return ws.Clone(), nil
		}
	}
	for _, ws := range e.config.Workspaces {
		if strings.EqualFold(ws.Name, ref) {
			return ws.Clone(), nil
		}
	}
	return state.WorkspaceRecord{}, fmt.Errorf("%w: %s", apperr.ErrWorkspaceNotFound, ref)
}
