// Package procs tracks child processes launched for projects.
//
// Each spawned child is wrapped in a Handle whose exit is observed by a
// dedicated Wait goroutine, so checking whether a child is still alive never
// blocks. The Registry maps project ids to handles and enforces at most one
// live child per project; entries for children that exited on their own are
// discarded lazily the next time the registry is inspected.
package procs

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/danieljhkim/launchdeck/internal/apperr"
)

// Handle is a started child process.
type Handle struct {
	cmd       *exec.Cmd
	label     string
	startedAt time.Time

	done    chan struct{}
	waitErr error
}

// Spawn starts cmd and begins observing its exit. label names the program
// in error messages.
func Spawn(cmd *exec.Cmd, label string) (*Handle, error) {
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrLaunch, label, err)
	}

	h := &Handle{
		cmd:       cmd,
		label:     label,
		startedAt: time.Now().UTC(),
		done:      make(chan struct{}),
	}
	go func() {
		h.waitErr = cmd.Wait()
		close(h.done)
	}()
	return h, nil
}

// PID returns the OS process id.
func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

// Label returns the program label given at spawn time.
func (h *Handle) Label() string {
	return h.label
}

// StartedAt returns when the child was spawned.
func (h *Handle) StartedAt() time.Time {
	return h.startedAt
}

// Done is closed once the child has exited and been reaped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Exited reports whether the child has exited. It never blocks.
func (h *Handle) Exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// ExitErr returns the error from Wait. Only meaningful after Done is closed.
func (h *Handle) ExitErr() error {
	select {
	case <-h.done:
		return h.waitErr
	default:
		return nil
	}
}

// Kill forcibly terminates the child. Killing a child that already exited
// is not an error.
func (h *Handle) Kill() error {
	if h.Exited() {
		return nil
	}
	if err := h.cmd.Process.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return fmt.Errorf("%w: failed to kill process %d (%s): %v", apperr.ErrLaunch, h.PID(), h.label, err)
	}
	return nil
}
