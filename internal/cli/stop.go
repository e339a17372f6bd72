package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/engine"
)

// stopCmd kills a project's tracked process.
var stopCmd = &cobra.Command{
	Use:   "stop <project>",
	Short: "Stop a launched project",
	Long: `Stop the process launchdeck started for a project. Stopping a project that is
not running does nothing.

A project id always works, whichever workspace the project belongs to and even
after the project was removed. A name is looked up in the selected workspace
first, then among the running processes of every workspace.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		id, label, err := resolveStopTarget(ctx, eng, args[0])
		if err != nil {
			return err
		}
		if err := eng.StopProject(ctx, id); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"stopped": id.String()})
		}
		PrintSuccess(fmt.Sprintf("Stopped %s", label))
		return nil
	},
}

// resolveStopTarget turns a project reference into the id the process table
// is keyed by.
func resolveStopTarget(ctx context.Context, eng *engine.Engine, ref string) (uuid.UUID, string, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, ref, nil
	}

	wsID, err := selectedWorkspace(eng)
	if err != nil {
		return uuid.Nil, "", err
	}
	p, err := findProject(ctx, eng, wsID, ref)
	if err == nil {
		return p.ID, p.Name, nil
	}
	if !errors.Is(err, apperr.ErrProjectNotFound) {
		return uuid.Nil, "", err
	}

	// Not in the selected workspace: match running processes by name
	names := projectNames(ctx, eng)
	var matches []uuid.UUID
	for _, rp := range eng.RunningProjects(ctx) {
		if strings.EqualFold(names[rp.ProjectID], ref) {
			matches = append(matches, rp.ProjectID)
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, "", err
	case 1:
		return matches[0], names[matches[0]], nil
	default:
		return uuid.Nil, "", fmt.Errorf("%w: %d running projects are named %q; use the project id", apperr.ErrValidation, len(matches), ref)
	}
}
