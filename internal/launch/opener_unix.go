//go:build linux || freebsd || openbsd || netbsd || dragonfly

package launch

import "os/exec"

func systemOpenCommand(path string) *exec.Cmd {
	return exec.Command("xdg-open", path)
}
