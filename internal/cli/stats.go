package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// statsCmd shows launch activity.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show launch activity for a workspace",
	Args:  cobra.NoArgs,
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
		stats, err := eng.ActivityStats(ctx, wsID)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(stats)
		}

		PrintSection("Activity")
		PrintLabelValue("Projects", strconv.FormatInt(stats.TotalProjects, 10))
		PrintLabelValue("Launches (year)", strconv.FormatInt(stats.TotalLaunches, 10))
		PrintLabelValue("Daily average", fmt.Sprintf("%.2f (last 30 days)", stats.AverageDailyLaunches))

		PrintSubsection("Last 7 days")
		rows := make([][]string, 0, len(stats.WeeklyActivity))
		for _, pt := range stats.WeeklyActivity {
			rows = append(rows, []string{pt.Date, strconv.FormatUint(uint64(pt.Count), 10), strings.Repeat("■", int(min(pt.Count, 40)))})
		}
		PrintTable([]string{"Date", "Launches", ""}, rows)

		PrintSubsection("Most launched")
		if len(stats.ProjectCounts) == 0 {
			PrintEmptyState("No launches in the last year")
			return nil
		}
		rows = rows[:0]
		for _, pc := range stats.ProjectCounts {
			rows = append(rows, []string{pc.Name, strconv.FormatInt(pc.Count, 10)})
		}
		PrintTable([]string{"Project", "Launches"}, rows)
		return nil
	},
}
