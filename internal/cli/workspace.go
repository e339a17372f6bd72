package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/launchdeck/internal/state"
)

var (
	workspaceDescription string
	workspaceDBPath      string
	workspaceActivate    bool
	workspaceNewName     string
)

// workspaceCmd is the parent command for workspace management.
var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage workspaces",
	Long: `Manage workspaces. Each workspace is an isolated set of projects with its own
SQLite store; commands that act on projects use the active workspace unless
--workspace is given.`,
}

// workspaceLsCmd lists all workspaces.
var workspaceLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		workspaces := eng.ListWorkspaces()
		active := eng.ActiveWorkspace()

		if jsonOutput {
			return outputJSON(workspaces)
		}

		PrintSection("Workspaces")
		if len(workspaces) == 0 {
			PrintEmptyState("No workspaces found")
			return nil
		}

		rows := make([][]string, 0, len(workspaces))
		for _, ws := range workspaces {
			mark := " "
			if active != nil && active.ID == ws.ID {
				mark = "*"
			}
			rows = append(rows, []string{
				mark,
				ws.Name,
				truncate(optional(ws.Description), 40),
				ws.ID.String(),
				formatTime(ws.CreatedAt),
			})
		}
		PrintTable([]string{"", "Name", "Description", "ID", "Created"}, rows)
		fmt.Println()
		PrintInfo("  " + PrintCount(len(workspaces), "workspace", "workspaces"))
		return nil
	},
}

// workspaceCreateCmd registers a new workspace.
var workspaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workspace",
	Long: `Create a workspace and its SQLite store. The store lives under the launchdeck
data directory unless --db names another file. The first workspace becomes active
automatically; pass --use to switch to a new one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		in := state.WorkspaceInput{Name: args[0]}
		if cmd.Flags().Changed("description") {
			in.Description = &workspaceDescription
		}
		if cmd.Flags().Changed("db") {
			in.DatabasePath = &workspaceDBPath
		}

		ws, err := eng.CreateWorkspace(ctx, in)
		if err != nil {
			return err
		}
		if workspaceActivate {
			if ws, err = eng.SetActiveWorkspace(ctx, ws.ID); err != nil {
				return err
			}
		}

		if jsonOutput {
			return outputJSON(ws)
		}
		PrintSuccess(fmt.Sprintf("Created workspace %s", ws.Name))
		PrintLabelValue("ID", ws.ID.String())
		PrintLabelValue("Store", ws.DatabasePath)
		if active := eng.ActiveWorkspace(); active != nil && active.ID == ws.ID {
			PrintLabelValueWithColor("Status", "active", successColor)
		}
		return nil
	},
}

// workspaceUseCmd switches the active workspace.
var workspaceUseCmd = &cobra.Command{
	Use:   "use <name|id>",
	Short: "Set the active workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		target, err := eng.LookupWorkspace(args[0])
		if err != nil {
			return err
		}
		ws, err := eng.SetActiveWorkspace(ctx, target.ID)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(ws)
		}
		PrintSuccess(fmt.Sprintf("Switched to workspace %s", ws.Name))
		return nil
	},
}

// workspaceCurrentCmd shows the active workspace.
var workspaceCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the active workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		ws := eng.ActiveWorkspace()
		if jsonOutput {
			return outputJSON(ws)
		}
		if ws == nil {
			PrintEmptyState("No active workspace")
			return nil
		}
		printWorkspace(*ws)
		return nil
	},
}

// workspaceEditCmd renames a workspace or changes its description.
var workspaceEditCmd = &cobra.Command{
	Use:   "edit <name|id>",
	Short: "Rename a workspace or change its description",
	Long: `Rename a workspace or change its description. An empty --description clears
the description.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("description") {
			return fmt.Errorf("nothing to change: pass --name and/or --description")
		}

		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		target, err := eng.LookupWorkspace(args[0])
		if err != nil {
			return err
		}

		var upd state.WorkspaceUpdate
		if cmd.Flags().Changed("name") {
			upd.Name = &workspaceNewName
		}
		if cmd.Flags().Changed("description") {
			upd.Description = &workspaceDescription
		}

		ws, err := eng.UpdateWorkspace(ctx, target.ID, upd)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(ws)
		}
		PrintSuccess(fmt.Sprintf("Updated workspace %s", ws.Name))
		return nil
	},
}

func printWorkspace(ws state.WorkspaceRecord) {
	PrintSection(ws.Name)
	PrintLabelValue("ID", ws.ID.String())
	PrintLabelValue("Description", optional(ws.Description))
	PrintLabelValue("Store", ws.DatabasePath)
	PrintLabelValue("Created", formatTime(ws.CreatedAt))
	PrintLabelValueWithColor("Updated", formatTime(ws.UpdatedAt), color.New(color.FgHiBlack))
}

func init() {
	workspaceCreateCmd.Flags().StringVarP(&workspaceDescription, "description", "d", "", "Workspace description")
	workspaceCreateCmd.Flags().StringVar(&workspaceDBPath, "db", "", "Path of the workspace's SQLite store")
	workspaceCreateCmd.Flags().BoolVar(&workspaceActivate, "use", false, "Make the new workspace active")

	workspaceEditCmd.Flags().StringVar(&workspaceNewName, "name", "", "New workspace name")
	workspaceEditCmd.Flags().StringVarP(&workspaceDescription, "description", "d", "", "New description (empty clears it)")

	workspaceCmd.AddCommand(workspaceLsCmd)
	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceUseCmd)
	workspaceCmd.AddCommand(workspaceCurrentCmd)
	workspaceCmd.AddCommand(workspaceEditCmd)
}
