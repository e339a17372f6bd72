// Package launch describes how a project is opened and performs the launch.
//
// An OpenConfig is a closed variant with three modes:
//   - system_default: hand the path to the host OS's default handler
//   - custom_app: run an executable with the project path appended as the last argument
//   - custom_command: run a command with the project path as its working directory
//
// Only custom_app and custom_command produce a child process that can be tracked.
package launch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/danieljhkim/launchdeck/internal/apperr"
)

// Mode selects the launch strategy of an OpenConfig.
type Mode string

const (
	ModeSystemDefault Mode = "system_default"
	ModeCustomApp     Mode = "custom_app"
	ModeCustomCommand Mode = "custom_command"
)

// OpenConfig is the launch strategy of a project or launch preset.
// The zero value behaves as system_default.
type OpenConfig struct {
	Mode Mode

	// Executable is the program path (custom_app only)
	Executable string

	// Command is the command name or string (custom_command only)
	Command string

	// Args are passed before the project path (custom_app) or as-is (custom_command)
	Args []string
}

// SystemDefault returns an OpenConfig that uses the OS default handler.
func SystemDefault() OpenConfig {
	return OpenConfig{Mode: ModeSystemDefault}
}

// CustomApp returns an OpenConfig that runs executable with args.
func CustomApp(executable string, args ...string) OpenConfig {
	return OpenConfig{Mode: ModeCustomApp, Executable: executable, Args: args}
}

// CustomCommand returns an OpenConfig that runs command with args.
func CustomCommand(command string, args ...string) OpenConfig {
	return OpenConfig{Mode: ModeCustomCommand, Command: command, Args: args}
}

// EffectiveMode returns the mode, mapping the zero value to system_default.
func (c OpenConfig) EffectiveMode() Mode {
	if c.Mode == "" {
		return ModeSystemDefault
	}
	return c.Mode
}

// Clone returns a deep copy of c.
func (c OpenConfig) Clone() OpenConfig {
	if c.Args != nil {
		c.Args = append([]string{}, c.Args...)
	}
	return c
}

// Sanitized returns a copy of c with the custom_app executable path sanitised.
func (c OpenConfig) Sanitized() OpenConfig {
	c = c.Clone()
	if c.EffectiveMode() == ModeCustomApp {
		c.Executable = SanitizePath(c.Executable)
	}
	return c
}

// Validate checks the invariants of the config's mode.
// A custom_app executable must exist on disk at the time of the call.
func (c OpenConfig) Validate() error {
	switch c.EffectiveMode() {
	case ModeSystemDefault:
		return nil
	case ModeCustomApp:
		if c.Executable == "" {
			return fmt.Errorf("%w: startup program cannot be empty", apperr.ErrValidation)
		}
		if _, err := os.Stat(c.Executable); err != nil {
			return fmt.Errorf("%w: startup program not found: %s", apperr.ErrValidation, c.Executable)
		}
		return nil
	case ModeCustomCommand:
		if strings.TrimSpace(c.Command) == "" {
			return fmt.Errorf("%w: custom command cannot be empty", apperr.ErrValidation)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown open mode %q", apperr.ErrValidation, c.Mode)
	}
}

// String renders the config for display.
func (c OpenConfig) String() string {
	switch c.EffectiveMode() {
	case ModeCustomApp:
		return strings.TrimSpace("app: " + c.Executable + " " + strings.Join(c.Args, " "))
	case ModeCustomCommand:
		return strings.TrimSpace("command: " + c.Command + " " + strings.Join(c.Args, " "))
	default:
		return "system default"
	}
}

type systemDefaultJSON struct {
	Mode Mode `json:"mode"`
}

type customAppJSON struct {
	Mode       Mode     `json:"mode"`
	Executable string   `json:"executable"`
	Args       []string `json:"args"`
}

type customCommandJSON struct {
	Mode    Mode     `json:"mode"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// MarshalJSON encodes the config as a "mode"-tagged object carrying only
// the fields of its mode.
func (c OpenConfig) MarshalJSON() ([]byte, error) {
	args := c.Args
	if args == nil {
		args = []string{}
	}
	switch c.EffectiveMode() {
	case ModeSystemDefault:
		return json.Marshal(systemDefaultJSON{Mode: ModeSystemDefault})
	case ModeCustomApp:
		return json.Marshal(customAppJSON{Mode: ModeCustomApp, Executable: c.Executable, Args: args})
	case ModeCustomCommand:
		return json.Marshal(customCommandJSON{Mode: ModeCustomCommand, Command: c.Command, Args: args})
	default:
		return nil, fmt.Errorf("unknown open mode %q", c.Mode)
	}
}

// UnmarshalJSON decodes a "mode"-tagged object. The mode tag is required.
func (c *OpenConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Mode       *Mode    `json:"mode"`
		Executable string   `json:"executable"`
		Command    string   `json:"command"`
		Args       []string `json:"args"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Mode == nil {
		return fmt.Errorf("open config: missing field \"mode\"")
	}

	switch *raw.Mode {
	case ModeSystemDefault:
		*c = SystemDefault()
	case ModeCustomApp:
		*c = OpenConfig{Mode: ModeCustomApp, Executable: raw.Executable, Args: raw.Args}
	case ModeCustomCommand:
		*c = OpenConfig{Mode: ModeCustomCommand, Command: raw.Command, Args: raw.Args}
	default:
		return fmt.Errorf("open config: unknown mode %q", *raw.Mode)
	}
	if c.Mode != ModeSystemDefault && c.Args == nil {
		c.Args = []string{}
	}
	return nil
}
