package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/launchdeck/internal/engine"
)

var launchWait bool

// launchCmd opens a project.
var launchCmd = &cobra.Command{
	Use:     "launch <project>",
	Aliases: []string{"open"},
	Short:   "Launch a project",
	Long: `Launch a project with its configured launch behaviour and record the launch.

Launching a project whose process is still running does nothing. Processes are
only tracked for the lifetime of the launchdeck process that started them, so
use --wait (or the session command) to keep a launched child under control.

Examples:
  launchdeck launch api
  launchdeck launch api --wait`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		wsID, err := selectedWorkspace(eng)
		if err != nil {
			return err
		}
		p, err := findProject(ctx, eng, wsID, args[0])
		if err != nil {
			return err
		}

		result, err := eng.LaunchProject(ctx, wsID, p.ID)
		if err != nil {
			return err
		}

		if jsonOutput {
			if err := outputJSON(result); err != nil {
				return err
			}
		} else {
			printLaunchResult(result)
		}

		if launchWait {
			if !result.Tracked {
				if !jsonOutput {
					PrintWarning("Nothing to wait for: system default opens are not tracked")
				}
				return nil
			}
			return waitForProject(ctx, eng, result)
		}
		return nil
	},
}

func printLaunchResult(result *engine.LaunchResult) {
	switch {
	case result.AlreadyRunning:
		PrintInfo(fmt.Sprintf("%s is already running (pid %d)", result.Project.Name, result.PID))
	case result.Tracked:
		PrintSuccess(fmt.Sprintf("Launched %s (pid %d)", result.Project.Name, result.PID))
	default:
		PrintSuccess(fmt.Sprintf("Opened %s with the system default handler", result.Project.Name))
	}
}

// waitForProject blocks until the launched child exits. An interrupt stops
// the child before returning.
func waitForProject(ctx context.Context, eng *engine.Engine, result *engine.LaunchResult) error {
	done, ok := eng.ProcessDone(result.Project.ID)
	if !ok {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-done:
		if !jsonOutput {
			PrintInfo(fmt.Sprintf("%s exited", result.Project.Name))
		}
		return nil
	case <-ctx.Done():
		logger.Info("interrupted, stopping project", "project", result.Project.Name, "pid", result.PID)
		return eng.StopProject(context.Background(), result.Project.ID)
	}
}

func init() {
	launchCmd.Flags().BoolVar(&launchWait, "wait", false, "Wait for the launched process to exit; Ctrl-C stops it")
}
