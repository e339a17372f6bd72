package launch

import (
	"fmt"
	"runtime"

	"github.com/danieljhkim/launchdeck/internal/apperr"
)

// SystemOpener opens paths with the platform's default handler
// (Explorer, Finder or the XDG opener). The opener process is detached;
// it is reaped in the background and never tracked.
type SystemOpener struct{}

// Open hands path to the platform opener.
func (SystemOpener) Open(path string) error {
	cmd := systemOpenCommand(path)
	if cmd == nil {
		return fmt.Errorf("%w: system open is not supported on %s", apperr.ErrLaunch, runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", apperr.ErrLaunch, cmd.Path, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
