package launch

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/procs"
)

// Opener opens a path with the host's default handler.
type Opener interface {
	Open(path string) error
}

// Launcher starts projects according to their OpenConfig.
type Launcher struct {
	opener Opener
	stdout io.Writer
	stderr io.Writer
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithOutput connects spawned children's stdout and stderr. By default
// both are discarded.
func WithOutput(stdout, stderr io.Writer) LauncherOption {
	return func(l *Launcher) {
		l.stdout = stdout
		l.stderr = stderr
	}
}

// NewLauncher creates a Launcher. A nil opener selects the platform's
// system opener.
func NewLauncher(opener Opener, opts ...LauncherOption) *Launcher {
	if opener == nil {
		opener = SystemOpener{}
	}
	l := &Launcher{opener: opener}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch opens projectPath using cfg. It returns the handle of the spawned
// child, or nil for system_default which produces nothing to track.
func (l *Launcher) Launch(cfg OpenConfig, projectPath string) (*procs.Handle, error) {
	switch cfg.EffectiveMode() {
	case ModeSystemDefault:
		if err := l.opener.Open(projectPath); err != nil {
			return nil, err
		}
		return nil, nil
	case ModeCustomApp:
		// Working directory is inherited from launchdeck itself.
		args := append(append([]string{}, cfg.Args...), projectPath)
		cmd := exec.Command(cfg.Executable, args...)
		return l.spawn(cmd, "program "+cfg.Executable)
	case ModeCustomCommand:
		cmd := exec.Command(cfg.Command, cfg.Args...)
		cmd.Dir = projectPath
		return l.spawn(cmd, cfg.Command)
	default:
		return nil, fmt.Errorf("%w: unknown open mode %q", apperr.ErrLaunch, cfg.Mode)
	}
}

func (l *Launcher) spawn(cmd *exec.Cmd, label string) (*procs.Handle, error) {
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	return procs.Spawn(cmd, label)
}
