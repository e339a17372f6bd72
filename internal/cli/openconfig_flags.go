package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/launch"
	"github.com/danieljhkim/launchdeck/internal/state"
)

// openConfigFlags are the flags that describe a launch.OpenConfig.
type openConfigFlags struct {
	mode       string
	executable string
	command    string
	args       []string
	preset     string
}

var openConfigFlagNames = []string{"mode", "exec", "cmd", "arg", "preset"}

func (f *openConfigFlags) register(fs *pflag.FlagSet, withPreset bool) {
	fs.StringVar(&f.mode, "mode", "", "Launch mode: system_default, custom_app or custom_command (inferred from --exec/--cmd)")
	fs.StringVar(&f.executable, "exec", "", "Program to run with the project path as its last argument")
	fs.StringVar(&f.command, "cmd", "", "Command to run inside the project directory")
	fs.StringArrayVar(&f.args, "arg", nil, "Argument for --exec or --cmd (repeatable)")
	if withPreset {
		fs.StringVar(&f.preset, "preset", "", "Use the OpenConfig of a saved launch preset")
	}
}

// changed reports whether any OpenConfig flag was given.
func (f *openConfigFlags) changed(fs *pflag.FlagSet) bool {
	for _, name := range openConfigFlagNames {
		if fl := fs.Lookup(name); fl != nil && fl.Changed {
			return true
		}
	}
	return false
}

// build assembles the OpenConfig. Presets are looked up in settings.
func (f *openConfigFlags) build(settings state.AppSettings) (launch.OpenConfig, error) {
	if f.preset != "" {
		if f.mode != "" || f.executable != "" || f.command != "" || len(f.args) > 0 {
			return launch.OpenConfig{}, fmt.Errorf("%w: --preset cannot be combined with --mode, --exec, --cmd or --arg", apperr.ErrValidation)
		}
		preset, ok := settings.FindPreset(f.preset)
		if !ok {
			return launch.OpenConfig{}, fmt.Errorf("%w: no launch preset named %q", apperr.ErrValidation, f.preset)
		}
		return preset.Config.Clone(), nil
	}

	mode := launch.Mode(f.mode)
	if mode == "" {
		switch {
		case f.executable != "" && f.command != "":
			return launch.OpenConfig{}, fmt.Errorf("%w: --exec and --cmd are mutually exclusive", apperr.ErrValidation)
		case f.executable != "":
			mode = launch.ModeCustomApp
		case f.command != "":
			mode = launch.ModeCustomCommand
		default:
			mode = launch.ModeSystemDefault
		}
	}

	switch mode {
	case launch.ModeSystemDefault:
		if f.executable != "" || f.command != "" || len(f.args) > 0 {
			return launch.OpenConfig{}, fmt.Errorf("%w: system_default takes no --exec, --cmd or --arg", apperr.ErrValidation)
		}
		return launch.SystemDefault(), nil
	case launch.ModeCustomApp:
		return launch.CustomApp(f.executable, f.args...), nil
	case launch.ModeCustomCommand:
		return launch.CustomCommand(f.command, f.args...), nil
	default:
		return launch.OpenConfig{}, fmt.Errorf("%w: unknown mode %q", apperr.ErrValidation, f.mode)
	}
}
