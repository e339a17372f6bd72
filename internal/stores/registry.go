package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/state"
)

// Handle pairs a workspace's metadata with its pool. Handles are values;
// holding one does not keep the pool open past Registry.Close.
type Handle struct {
	Workspace state.WorkspaceRecord
	DB        *sql.DB
}

// Registry maps workspace ids to their open pools.
// It is not safe for concurrent use; the engine serialises access.
type Registry struct {
	pools map[uuid.UUID]*sql.DB
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{pools: make(map[uuid.UUID]*sql.DB)}
}

// Put registers db for id, closing any pool it replaces.
func (r *Registry) Put(id uuid.UUID, db *sql.DB) {
	if old, ok := r.pools[id]; ok && old != db {
		_ = old.Close()
	}
	r.pools[id] = db
}

// Get returns the pool for id.
func (r *Registry) Get(id uuid.UUID) (*sql.DB, bool) {
	db, ok := r.pools[id]
	return db, ok
}

// Handle builds a Handle for rec from its registered pool.
func (r *Registry) Handle(rec state.WorkspaceRecord) (Handle, bool) {
	db, ok := r.pools[rec.ID]
	if !ok {
		return Handle{}, false
	}
	return Handle{Workspace: rec.Clone(), DB: db}, true
}

// Ensure returns the pool for rec, opening it if it is not registered yet.
func (r *Registry) Ensure(ctx context.Context, rec state.WorkspaceRecord) (*sql.DB, error) {
	if db, ok := r.pools[rec.ID]; ok {
		return db, nil
	}
	db, err := OpenPool(ctx, rec.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("workspace %q: %w", rec.Name, err)
	}
	r.pools[rec.ID] = db
	return db, nil
}

// Remove unregisters and closes the pool for id.
func (r *Registry) Remove(id uuid.UUID) error {
	db, ok := r.pools[id]
	if !ok {
		return nil
	}
	delete(r.pools, id)
	return db.Close()
}

// Len returns the number of open pools.
func (r *Registry) Len() int {
	return len(r.pools)
}

// Close closes every pool.
func (r *Registry) Close() error {
	var errs []error
	for id, db := range r.pools {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("workspace %s: %w", id, err))
		}
		delete(r.pools, id)
	}
	return errors.Join(errs...)
}
