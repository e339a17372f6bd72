package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/projects"
)

// The methods below resolve a handle under the engine's lock and then call
// the projects package without holding it.

// ListProjects lists the projects of a workspace (nil for the active one).
func (e *Engine) ListProjects(ctx context.Context, workspaceID *uuid.UUID) ([]projects.Project, error) {
	h, err := e.Handle(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return projects.List(ctx, h)
}

// GetProject returns one project.
func (e *Engine) GetProject(ctx context.Context, workspaceID *uuid.UUID, projectID uuid.UUID) (projects.Project, error) {
	h, err := e.Handle(ctx, workspaceID)
	if err != nil {
		return projects.Project{}, err
	}
	return projects.Get(ctx, h, projectID)
}

// UpsertProject creates or replaces a project.
func (e *Engine) UpsertProject(ctx context.Context, workspaceID *uuid.UUID, in projects.ProjectInput) (projects.Project, error) {
	h, err := e.Handle(ctx, workspaceID)
	if err != nil {
		return projects.Project{}, err
	}
	p, err := projects.Upsert(ctx, h, in, e.clock.Now())
	if err != nil {
		return projects.Project{}, err
	}
	e.logger.Info("saved project", "workspace", h.Workspace.Name, "project", p.Name, "id", p.ID)
	return p, nil
}

// DeleteProject removes a project and its launch history.
func (e *Engine) DeleteProject(ctx context.Context, workspaceID *uuid.UUID, projectID uuid.UUID) (uuid.UUID, error) {
	h, err := e.Handle(ctx, workspaceID)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := projects.Delete(ctx, h, projectID)
	if err != nil {
		return uuid.Nil, err
	}
	e.logger.Info("deleted project", "workspace", h.Workspace.Name, "id", id)
	return id, nil
}

// ActivityStats summarises a workspace's launch history.
func (e *Engine) ActivityStats(ctx context.Context, workspaceID *uuid.UUID) (projects.ActivityStats, error) {
	h, err := e.Handle(ctx, workspaceID)
	if err != nil {
		return projects.ActivityStats{}, err
	}
	return projects.Stats(ctx, h, e.clock.Now())
}
