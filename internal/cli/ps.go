package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// psCmd lists tracked processes.
var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List running projects",
	Long: `List the project processes started by this launchdeck process. Exited
processes are dropped from the table as a side effect.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		running := eng.RunningProjects(ctx)
		if jsonOutput {
			return outputJSON(running)
		}

		PrintSection("Running Projects")
		if len(running) == 0 {
			PrintEmptyState("No running projects")
			return nil
		}

		names := projectNames(ctx, eng)

		rows := make([][]string, 0, len(running))
		for _, rp := range running {
			name, ok := names[rp.ProjectID]
			if !ok {
				name = rp.ProjectID.String()
			}
			rows = append(rows, []string{
				name,
				strconv.Itoa(rp.PID),
				truncate(rp.Program, 40),
				time.Since(rp.StartedAt).Round(time.Second).String(),
			})
		}
		PrintTable([]string{"Project", "PID", "Program", "Uptime"}, rows)
		return nil
	},
}
