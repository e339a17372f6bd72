// Package projects implements project CRUD, launch history and activity
// statistics over a workspace's store.
//
// Functions take a stores.Handle resolved by the engine and never retain it.
package projects

import (
	"time"

	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/launch"
)

// Project is a catalogued filesystem path with its launch strategy.
type Project struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Description *string           `json:"description"`
	OpenConfig  launch.OpenConfig `json:"openConfig"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ProjectInput creates a project (nil ID) or replaces an existing one.
type ProjectInput struct {
	ID          *uuid.UUID        `json:"id"`
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Description *string           `json:"description"`
	OpenConfig  launch.OpenConfig `json:"openConfig"`
}

// ActivityPoint is the launch count of one UTC day (YYYY-MM-DD).
type ActivityPoint struct {
	Date  string `json:"date"`
	Count uint32 `json:"count"`
}

// ProjectCount is a project's all-time launch count.
type ProjectCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// ActivityStats summarises a workspace's launch history.
type ActivityStats struct {
	WeeklyActivity       []ActivityPoint `json:"weeklyActivity"`
	MonthlyActivity      []ActivityPoint `json:"monthlyActivity"`
	YearlyActivity       []ActivityPoint `json:"yearlyActivity"`
	ProjectCounts        []ProjectCount  `json:"projectCounts"`
	TotalLaunches        int64           `json:"totalLaunches"`
	TotalProjects        int64           `json:"totalProjects"`
	AverageDailyLaunches float64         `json:"averageDailyLaunches"`
}

// InputFrom returns an update payload that reproduces p.
func InputFrom(p Project) ProjectInput {
	id := p.ID
	var desc *string
	if p.Description != nil {
		d := *p.Description
		desc = &d
	}
	return ProjectInput{
		ID:          &id,
		Name:        p.Name,
		Path:        p.Path,
		Description: desc,
		OpenConfig:  p.OpenConfig.Clone(),
	}
}
