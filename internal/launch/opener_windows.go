package launch

import "os/exec"

func systemOpenCommand(path string) *exec.Cmd {
	return exec.Command("explorer", path)
}
