//go:build !unix

package executor

import (
	"os"
	"os/exec"
)

func setProcessGroup(*exec.Cmd) {}

func killProcess(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return os.ErrProcessDone
	}
	return cmd.Process.Kill()
}

// killedBySignal cannot tell a kill from a normal exit here, so every
// stopped process counts as killed
func killedBySignal(*os.ProcessState) bool {
	return true
}
