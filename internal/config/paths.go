// Package config resolves the filesystem locations launchdeck uses.
//
// The data root holds the workspace registry document (workspaces.json), its
// lock file, and one subdirectory per workspace containing that workspace's
// SQLite store. The default root is <user config dir>/launchdeck and can be
// overridden with the LAUNCHDECK_ROOT environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/launchdeck/internal/apperr"
)

const (
	// RootEnv overrides the data root when set.
	RootEnv = "LAUNCHDECK_ROOT"

	// ConfigFilename is the name of the workspace registry document.
	ConfigFilename = "workspaces.json"

	// WorkspaceDBFilename is the name of each workspace's store file.
	WorkspaceDBFilename = "projects.sqlite"
)

// Paths contains all the filesystem paths used by launchdeck.
type Paths struct {
	// Root is the base directory for all launchdeck data
	Root string

	// Workspaces is the directory containing one subdirectory per workspace store
	Workspaces string

	// Config is the path to the workspace registry document
	Config string

	// ConfigLock is the path to the cross-process lock guarding Config
	ConfigLock string
}

// NewPaths builds the path set rooted at root.
func NewPaths(root string) Paths {
	return Paths{
		Root:       root,
		Workspaces: filepath.Join(root, "workspaces"),
		Config:     filepath.Join(root, ConfigFilename),
		ConfigLock: filepath.Join(root, ConfigFilename+".lock"),
	}
}

// DefaultPaths returns the default paths for launchdeck.
// Paths can be overridden with environment variables:
// - LAUNCHDECK_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%w: user config directory: %v", apperr.ErrPathUnavailable, err)
		}
		root = filepath.Join(dir, "launchdeck")
	}

	paths := NewPaths(root)
	return &paths, nil
}

// WorkspaceDBPath returns the deterministic store location for a workspace id.
func (p Paths) WorkspaceDBPath(workspaceID string) string {
	return filepath.Join(p.Workspaces, workspaceID, WorkspaceDBFilename)
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Workspaces,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create directory %s: %v", apperr.ErrIO, dir, err)
		}
	}

	return nil
}
