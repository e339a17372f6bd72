package state

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkspaceRecord describes one registered workspace.
type WorkspaceRecord struct {
	// ID is stable for the workspace's lifetime
	ID uuid.UUID `json:"id"`

	// Name is unique across workspaces, compared case-insensitively
	Name string `json:"name"`

	// Description is optional free text
	Description *string `json:"description"`

	// DatabasePath is the absolute path of the workspace's SQLite store
	DatabasePath string `json:"databasePath"`

	// CreatedAt is when the workspace was registered
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the name or description last changed
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkspaceInput is the payload for registering a workspace.
type WorkspaceInput struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	DatabasePath *string `json:"databasePath"`
}

// WorkspaceUpdate edits a workspace's name and/or description.
// Nil fields are left unchanged; an empty description clears it.
type WorkspaceUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Clone returns a deep copy of the record.
func (w WorkspaceRecord) Clone() WorkspaceRecord {
	w.Description = cloneString(w.Description)
	return w
}

// NameTaken reports whether name collides case-insensitively with a workspace
// other than except.
func (c *AppConfig) NameTaken(name string, except uuid.UUID) bool {
	for _, ws := range c.Workspaces {
		if ws.ID != except && strings.EqualFold(ws.Name, name) {
			return true
		}
	}
	return false
}

// FindWorkspace returns the workspace with the given id.
func (c *AppConfig) FindWorkspace(id uuid.UUID) (*WorkspaceRecord, bool) {
	for i := range c.Workspaces {
		if c.Workspaces[i].ID == id {
			return &c.Workspaces[i], true
		}
	}
	return nil, false
}

// TrimOptional trims s and maps an empty result to nil.
func TrimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
