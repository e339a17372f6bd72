package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/launchdeck/internal/launch"
	"github.com/danieljhkim/launchdeck/internal/projects"
)

var (
	projectDescription string
	projectNewName     string
	projectNewPath     string
	projectOpenFlags   openConfigFlags
)

// projectCmd is the parent command for project management.
var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"p"},
	Short:   "Manage projects in a workspace",
	Long: `Manage the projects of a workspace. A project is a directory plus the way it is
opened: with the system's default handler, with a program that receives the
project path as its last argument, or with a command run inside the directory.`,
}

// projectLsCmd lists projects.
var projectLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List projects",
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
		list, err := eng.ListProjects(ctx, wsID)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(list)
		}

		PrintSection("Projects")
		if len(list) == 0 {
			PrintEmptyState("No projects yet. Add one with: launchdeck project add <name> <path>")
			return nil
		}

		running := make(map[string]bool)
		for _, rp := range eng.RunningProjects(ctx) {
			running[rp.ProjectID.String()] = true
		}

		rows := make([][]string, 0, len(list))
		for _, p := range list {
			mark := " "
			if running[p.ID.String()] {
				mark = "●"
			}
			rows = append(rows, []string{
				mark,
				p.Name,
				truncate(p.Path, 50),
				truncate(p.OpenConfig.String(), 30),
				p.ID.String(),
			})
		}
		PrintTable([]string{"", "Name", "Path", "Open With", "ID"}, rows)
		fmt.Println()
		PrintInfo("  " + PrintCount(len(list), "project", "projects"))
		return nil
	},
}

// projectAddCmd creates a project.
var projectAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Add a project",
	Long: `Add a project to the workspace. The path must exist; relative paths are
resolved against the current directory.

Examples:
  launchdeck project add api ./services/api
  launchdeck project add web ~/src/web --exec /usr/local/bin/code
  launchdeck project add shell . --cmd wezterm --arg start
  launchdeck project add notes ~/notes --preset Editor`,
	Args: cobra.ExactArgs(2),
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
		cfg, err := projectOpenFlags.build(eng.Settings())
		if err != nil {
			return err
		}

		in := projects.ProjectInput{
			Name:       args[0],
			Path:       absPath(args[1]),
			OpenConfig: cfg,
		}
		if cmd.Flags().Changed("description") {
			in.Description = &projectDescription
		}

		p, err := eng.UpsertProject(ctx, wsID, in)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(p)
		}
		PrintSuccess(fmt.Sprintf("Added project %s", p.Name))
		printProject(p)
		return nil
	},
}

// projectEditCmd updates a project.
var projectEditCmd = &cobra.Command{
	Use:   "edit <project>",
	Short: "Edit a project",
	Long: `Edit a project's name, path, description or launch behaviour. Only the given
flags change; an empty --description clears it. Giving any of --mode, --exec,
--cmd, --arg or --preset replaces the whole launch behaviour.`,
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

		in := projects.InputFrom(p)
		flags := cmd.Flags()
		if flags.Changed("name") {
			in.Name = projectNewName
		}
		if flags.Changed("path") {
			in.Path = absPath(projectNewPath)
		}
		if flags.Changed("description") {
			in.Description = &projectDescription
		}
		if projectOpenFlags.changed(flags) {
			if in.OpenConfig, err = projectOpenFlags.build(eng.Settings()); err != nil {
				return err
			}
		}

		updated, err := eng.UpsertProject(ctx, wsID, in)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(updated)
		}
		PrintSuccess(fmt.Sprintf("Updated project %s", updated.Name))
		return nil
	},
}

// projectRmCmd deletes a project.
var projectRmCmd = &cobra.Command{
	Use:     "rm <project>",
	Aliases: []string{"delete"},
	Short:   "Remove a project and its launch history",
	Args:    cobra.ExactArgs(1),
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
		id, err := eng.DeleteProject(ctx, wsID, p.ID)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"deleted": id.String()})
		}
		PrintSuccess(fmt.Sprintf("Removed project %s", p.Name))
		return nil
	},
}

// projectShowCmd shows one project.
var projectShowCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
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

		if jsonOutput {
			return outputJSON(p)
		}
		printProject(p)
		return nil
	},
}

func printProject(p projects.Project) {
	PrintSection(p.Name)
	PrintLabelValue("ID", p.ID.String())
	PrintLabelValue("Path", p.Path)
	PrintLabelValue("Description", optional(p.Description))
	PrintLabelValue("Open with", p.OpenConfig.String())
	if p.OpenConfig.EffectiveMode() == launch.ModeCustomCommand {
		PrintLabelValue("Working dir", p.Path)
	}
	PrintLabelValue("Created", formatTime(p.CreatedAt))
	PrintLabelValue("Updated", formatTime(p.UpdatedAt))
}

// absPath resolves path against the current directory, leaving it as given
// when that fails.
func absPath(path string) string {
	clean := launch.SanitizePath(path)
	if abs, err := filepath.Abs(clean); err == nil && clean != "" {
		return abs
	}
	return path
}

func init() {
	projectAddCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description")
	projectOpenFlags.register(projectAddCmd.Flags(), true)

	projectEditCmd.Flags().StringVar(&projectNewName, "name", "", "New project name")
	projectEditCmd.Flags().StringVar(&projectNewPath, "path", "", "New project path")
	projectEditCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "New description (empty clears it)")
	projectOpenFlags.register(projectEditCmd.Flags(), true)

	projectCmd.AddCommand(projectLsCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectEditCmd)
	projectCmd.AddCommand(projectRmCmd)
	projectCmd.AddCommand(projectShowCmd)
}
