// Package viewer hands the materialized result off to the external
// interactive viewer by replacing the current process image.
package viewer

import (
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ErrLaunch marks viewer availability and exec failures.
var ErrLaunch = errors.New("viewer launch error")

// installHint is appended when the viewer binary cannot be found.
const installHint = "install VisiData to use qv: https://www.visidata.org/install/"

// Check verifies the viewer binary is on PATH and returns its resolved
// location. Run before query execution so a missing viewer fails fast.
func Check(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %q not found in PATH; %s", ErrLaunch, binary, installHint)
	}
	return path, nil
}

// Launch replaces the current process with the viewer opened on
// resultPath. extraArgs are inserted before the path. This call does not
// return on success; any return value is a failure.
func Launch(binaryPath string, extraArgs []string, resultPath string, env []string) error {
	argv := make([]string, 0, len(extraArgs)+2)
	argv = append(argv, binaryPath)
	argv = append(argv, extraArgs...)
	argv = append(argv, resultPath)

	if err := unix.Exec(binaryPath, argv, env); err != nil {
		return fmt.Errorf("%w: exec %s: %v", ErrLaunch, binaryPath, err)
	}
	// Unreachable: Exec only returns on error.
	return nil
}
