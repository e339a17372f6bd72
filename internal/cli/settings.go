package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/state"
)

var (
	settingsTheme      string
	settingsAccent     string
	settingsZoom       uint8
	settingsFontSize   uint8
	settingsFontFamily string

	presetDescription string
	presetOpenFlags   openConfigFlags
)

// settingsCmd is the parent command for preferences.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change preferences",
	Long: `View and change preferences and launch presets. Settings are global; they are
shared by all workspaces.`,
}

// settingsGetCmd prints the settings.
var settingsGetCmd = &cobra.Command{
	Use:     "get",
	Aliases: []string{"show"},
	Short:   "Show the current settings",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		s := eng.Settings()
		if jsonOutput {
			return outputJSON(s)
		}
		printSettings(s)
		return nil
	},
}

// settingsSetCmd changes individual settings.
var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	Long: `Change individual settings; unspecified settings keep their values. Font size
is clamped to 10-28 and zoom to 50-200.

Examples:
  launchdeck settings set --theme dark
  launchdeck settings set --font-size 18 --font-family "JetBrains Mono"
  launchdeck settings set --font-family ""`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		upd := state.NewSettingsUpdate(eng.Settings())
		flags := cmd.Flags()
		if flags.Changed("theme") {
			upd.Theme = state.Theme(settingsTheme)
		}
		if flags.Changed("accent") {
			upd.AccentColor = settingsAccent
		}
		if flags.Changed("zoom") {
			upd.ZoomLevel = settingsZoom
		}
		if flags.Changed("font-size") {
			upd.FontSize = settingsFontSize
		}
		if flags.Changed("font-family") {
			upd.FontFamily = &settingsFontFamily
		}

		return applySettings(ctx, eng.UpdateSettings, upd)
	},
}

// settingsImportCmd replaces the settings from a JSON document.
var settingsImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace all settings from a JSON file",
	Long: `Replace all settings, launch presets included, from a JSON document in the
format printed by "launchdeck settings get --json". Use - to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", apperr.ErrIO, err)
			}
			defer f.Close()
			r = f
		}

		// Fields the document omits take their fresh-install values
		upd := state.AppSettingsUpdate{
			FontSize:      state.DefaultFontSize,
			LaunchPresets: []state.LaunchPresetInput{},
		}
		if err := json.NewDecoder(r).Decode(&upd); err != nil {
			return fmt.Errorf("%w: settings document: %v", apperr.ErrSerialization, err)
		}

		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		return applySettings(ctx, eng.UpdateSettings, upd)
	},
}

// presetCmd is the parent command for launch presets.
var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage launch presets",
	Long: `Launch presets are named launch behaviours that can be applied to projects with
"launchdeck project add --preset <name>".`,
}

// presetLsCmd lists presets.
var presetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List launch presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		presets := eng.Settings().LaunchPresets
		if jsonOutput {
			return outputJSON(presets)
		}
		PrintSection("Launch Presets")
		printPresets(presets)
		return nil
	},
}

// presetAddCmd appends a preset.
var presetAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a launch preset",
	Long: `Add a launch preset.

Examples:
  launchdeck settings preset add Editor --exec /usr/local/bin/code
  launchdeck settings preset add Terminal --cmd wezterm --arg start`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		current := eng.Settings()
		if _, exists := current.FindPreset(args[0]); exists {
			return fmt.Errorf("%w: a launch preset named %q already exists", apperr.ErrValidation, args[0])
		}
		cfg, err := presetOpenFlags.build(current)
		if err != nil {
			return err
		}

		upd := state.NewSettingsUpdate(current)
		in := state.LaunchPresetInput{Name: args[0], Config: cfg}
		if cmd.Flags().Changed("description") {
			in.Description = &presetDescription
		}
		upd.LaunchPresets = append(upd.LaunchPresets, in)

		return applySettings(ctx, eng.UpdateSettings, upd)
	},
}

// presetRmCmd removes a preset.
var presetRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a launch preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, release, err := acquireEngine(ctx)
		if err != nil {
			return err
		}
		defer release()

		current := eng.Settings()
		target, ok := current.FindPreset(args[0])
		if !ok {
			return fmt.Errorf("%w: no launch preset named %q", apperr.ErrValidation, args[0])
		}

		upd := state.NewSettingsUpdate(current)
		kept := upd.LaunchPresets[:0]
		for _, p := range upd.LaunchPresets {
			if *p.ID != target.ID {
				kept = append(kept, p)
			}
		}
		upd.LaunchPresets = kept

		return applySettings(ctx, eng.UpdateSettings, upd)
	},
}

// applySettings submits upd and prints the stored result.
func applySettings(ctx context.Context, update func(context.Context, state.AppSettingsUpdate) (state.AppSettings, error), upd state.AppSettingsUpdate) error {
	s, err := update(ctx, upd)
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(s)
	}
	PrintSuccess("Settings saved")
	printSettings(s)
	return nil
}

func printSettings(s state.AppSettings) {
	PrintSection("Settings")
	PrintLabelValue("Theme", string(s.Theme))
	PrintLabelValue("Accent", s.AccentColor)
	PrintLabelValue("Zoom", strconv.Itoa(int(s.ZoomLevel))+"%")
	PrintLabelValue("Font size", strconv.Itoa(int(s.FontSize)))
	PrintLabelValue("Font family", optional(s.FontFamily))

	PrintSubsection("Launch presets")
	printPresets(s.LaunchPresets)
}

func printPresets(presets []state.LaunchPreset) {
	if len(presets) == 0 {
		PrintEmptyState("No launch presets")
		return
	}
	rows := make([][]string, 0, len(presets))
	for _, p := range presets {
		rows = append(rows, []string{p.Name, truncate(p.Config.String(), 40), truncate(optional(p.Description), 30)})
	}
	PrintTable([]string{"Name", "Open With", "Description"}, rows)
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingsTheme, "theme", "", "Theme: light, dark or system")
	settingsSetCmd.Flags().StringVar(&settingsAccent, "accent", "", "Accent colour, e.g. #3b82f6")
	settingsSetCmd.Flags().Uint8Var(&settingsZoom, "zoom", state.DefaultZoomLevel, "Zoom level in percent")
	settingsSetCmd.Flags().Uint8Var(&settingsFontSize, "font-size", state.DefaultFontSize, "Font size")
	settingsSetCmd.Flags().StringVar(&settingsFontFamily, "font-family", "", "Font family (empty resets to the default)")

	presetAddCmd.Flags().StringVarP(&presetDescription, "description", "d", "", "Preset description")
	presetOpenFlags.register(presetAddCmd.Flags(), false)

	presetCmd.AddCommand(presetLsCmd)
	presetCmd.AddCommand(presetAddCmd)
	presetCmd.AddCommand(presetRmCmd)

	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsImportCmd)
	settingsCmd.AddCommand(presetCmd)
}
