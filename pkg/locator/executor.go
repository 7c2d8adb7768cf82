// File: pkg/locator/executor.go
package locator

import (
	"bytes"
	"io"
	"os/exec"
)

// CommandExecutor runs external commands.
type CommandExecutor interface {
	// Execute runs cmd and returns a *GitError when it exits non-zero.
	Execute(cmd *exec.Cmd) error
}

// ExecExecutor is the default CommandExecutor, delegating to os/exec.
// Stdout and Stderr receive the child's output; stderr is also captured
// for the error message.
type ExecExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecExecutor creates an ExecExecutor forwarding output to the given writers.
func NewExecExecutor(stdout, stderr io.Writer) *ExecExecutor {
	return &ExecExecutor{Stdout: stdout, Stderr: stderr}
}

// Execute implements CommandExecutor.
func (e *ExecExecutor) Execute(cmd *exec.Cmd) error {
	var captured bytes.Buffer
	cmd.Stdout = e.Stdout
	if e.Stderr != nil {
		cmd.Stderr = io.MultiWriter(e.Stderr, &captured)
	} else {
		cmd.Stderr = &captured
	}

	if err := cmd.Run(); err != nil {
		operation := ""
		var args []string
		if len(cmd.Args) > 1 {
			operation = gitSubcommand(cmd.Args[1:])
			args = cmd.Args[1:]
		}
		return NewGitError(operation, args, err, captured.String())
	}
	return nil
}

// gitSubcommand picks the subcommand out of git arguments, skipping -C <dir>.
func gitSubcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-C" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}
