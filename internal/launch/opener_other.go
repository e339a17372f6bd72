//go:build !darwin && !windows && !linux && !freebsd && !openbsd && !netbsd && !dragonfly

package launch

import "os/exec"

func systemOpenCommand(string) *exec.Cmd {
	return nil
}
