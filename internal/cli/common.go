package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/config"
	"github.com/danieljhkim/launchdeck/internal/engine"
	"github.com/danieljhkim/launchdeck/internal/projects"
)

// sessionEngine is set while the session command runs so every command it
// dispatches shares one engine and therefore one process table.
var sessionEngine *engine.Engine

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(ctx context.Context) (*engine.Engine, error) {
	// Get default paths
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	// Create engine
	eng, err := engine.Open(ctx, engine.Options{
		Paths:  *paths,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open launchdeck data in %s: %w", paths.Root, err)
	}
	return eng, nil
}

// acquireEngine returns the session engine when one is running, otherwise a
// fresh engine. release must be called when the command is done with it.
func acquireEngine(ctx context.Context) (eng *engine.Engine, release func(), err error) {
	if sessionEngine != nil {
		return sessionEngine, func() {}, nil
	}
	eng, err = newEngine(ctx)
	if err != nil {
		return nil, nil, err
	}
	return eng, func() {
		if err := eng.Close(); err != nil {
			logger.Warn("failed to close workspace stores", "err", err)
		}
	}, nil
}

// selectedWorkspace resolves --workspace to an id; nil means the active one.
func selectedWorkspace(eng *engine.Engine) (*uuid.UUID, error) {
	if workspaceFlag == "" {
		return nil, nil
	}
	ws, err := eng.LookupWorkspace(workspaceFlag)
	if err != nil {
		return nil, err
	}
	return &ws.ID, nil
}

// findProject resolves a project by id or by case-insensitive name.
func findProject(ctx context.Context, eng *engine.Engine, wsID *uuid.UUID, ref string) (projects.Project, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return eng.GetProject(ctx, wsID, id)
	}

	all, err := eng.ListProjects(ctx, wsID)
	if err != nil {
		return projects.Project{}, err
	}
	var matches []projects.Project
	for _, p := range all {
		if strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return projects.Project{}, fmt.Errorf("%w: %s", apperr.ErrProjectNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return projects.Project{}, fmt.Errorf("%w: %d projects are named %q; use the project id", apperr.ErrValidation, len(matches), ref)
	}
}

// projectNames maps project ids to names across every workspace. Workspaces
// whose store cannot be read are skipped.
func projectNames(ctx context.Context, eng *engine.Engine) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	for _, ws := range eng.ListWorkspaces() {
		list, err := eng.ListProjects(ctx, &ws.ID)
		if err != nil {
			logger.Debug("skipping unreadable workspace", "workspace", ws.Name, "err", err)
			continue
		}
		for _, p := range list {
			names[p.ID] = p.Name
		}
	}
	return names
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	initColors()
	return errorColor.Sprintf("Error: %v", err)
}

// errorJSON is the --json rendering of a failed command.
type errorJSON struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FormatError renders err for the terminal, or as JSON with --json.
func FormatError(err error) string {
	if jsonOutput {
		out, jerr := formatJSON(map[string]errorJSON{"error": {Kind: apperr.Kind(err), Message: err.Error()}})
		if jerr == nil {
			return out
		}
	}
	return formatError(err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
