package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/projects"
)

// LaunchResult describes the outcome of LaunchProject.
type LaunchResult struct {
	// Project is the launched project
	Project projects.Project `json:"project"`

	// Tracked is true when a child process is now in the process table
	Tracked bool `json:"tracked"`

	// AlreadyRunning is true when the call was a no-op because the
	// project's child was still alive
	AlreadyRunning bool `json:"alreadyRunning"`

	// PID of the tracked child, zero for system_default opens
	PID int `json:"pid,omitempty"`
}

// RunningProcess describes one live entry of the process table.
type RunningProcess struct {
	ProjectID uuid.UUID `json:"projectId"`
	PID       int       `json:"pid"`
	Program   string    `json:"program"`
	StartedAt time.Time `json:"startedAt"`
}
