package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/projects"
)

// LaunchProject starts a project with its OpenConfig.
// Algorithm steps:
// 1. Resolve the workspace handle and load the project
// 2. If the project's child is still alive, return without spawning
// 3. Launch; a tracked child goes into the process table
// 4. Record the launch in the workspace's history; on failure the tracked
//    child is stopped again
//
// The write lock is held throughout so no second launch of the same project
// can slip in between the liveness check and the table insert.
func (e *Engine) LaunchProject(ctx context.Context, workspaceID *uuid.UUID, projectID uuid.UUID) (*LaunchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Step 1: Resolve and load
	h, err := e.handleLocked(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	p, err := projects.Get(ctx, h, projectID)
	if err != nil {
		return nil, err
	}

	// Step 2: Idempotent launch
	key := projectID.String()
	if e.procs.IsRunning(key) {
		child, _ := e.procs.Get(key)
		e.logger.Debug("project already running", "project", p.Name, "pid", child.PID())
		return &LaunchResult{Project: p, Tracked: true, AlreadyRunning: true, PID: child.PID()}, nil
	}

	// Step 3: Launch
	child, err := e.launcher.Launch(p.OpenConfig, p.Path)
	if err != nil {
		return nil, err
	}
	result := &LaunchResult{Project: p}
	if child != nil {
		e.procs.Track(key, child)
		result.Tracked = true
		result.PID = child.PID()
	}

	// Step 4: Record history. A launch that cannot be recorded is undone so
	// an error always means no tracked child was left behind.
	if err := projects.RecordLaunch(ctx, h, projectID, e.clock.Now()); err != nil {
		if child != nil {
			if stopErr := e.procs.Stop(key); stopErr != nil {
				e.logger.Warn("failed to stop unrecorded launch", "project", p.Name, "pid", child.PID(), "err", stopErr)
			}
		}
		e.logger.Warn("launch not recorded", "project", p.Name, "err", err)
		return nil, err
	}

	e.logger.Info("launched project", "project", p.Name, "mode", p.OpenConfig.EffectiveMode(), "pid", result.PID)
	return result, nil
}

// StopProject kills the project's tracked child. Stopping a project with no
// tracked child is a no-op.
func (e *Engine) StopProject(ctx context.Context, projectID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.procs.Stop(projectID.String())
}

// RunningProjects sweeps the process table, discarding children that have
// exited, and returns the live entries ordered by project id.
func (e *Engine) RunningProjects(ctx context.Context) []RunningProcess {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := e.procs.Sweep()
	running := make([]RunningProcess, 0, len(ids))
	for _, key := range ids {
		id, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		child, _ := e.procs.Get(key)
		running = append(running, RunningProcess{
			ProjectID: id,
			PID:       child.PID(),
			Program:   child.Label(),
			StartedAt: child.StartedAt(),
		})
	}
	return running
}

// ProcessDone returns a channel closed when the project's tracked child
// exits. ok is false when the project has no live child.
func (e *Engine) ProcessDone(projectID uuid.UUID) (done <-chan struct{}, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := projectID.String()
	if !e.procs.IsRunning(key) {
		return nil, false
	}
	child, _ := e.procs.Get(key)
	return child.Done(), true
}
