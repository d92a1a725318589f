// Package shellaction implements the one concrete shell-command Action the
// spec names: it delegates a command string to the host's shell and
// returns standard output as the task's Output. The command text is fed to
// "sh" on its standard input through github.com/bitfield/script, so shell
// syntax (pipes, builtins such as exit, &&) is interpreted by the shell.
package shellaction

import (
	"context"
	"fmt"

	"github.com/bitfield/script"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/ctxlog"
	"github.com/skull8888888/dagrs/internal/envvar"
)

// ShellAction runs Command through the host shell. It never reads its
// Input — it is a leaf-style action meant for source tasks in a graph, or
// for chains where downstream tasks only care that the command succeeded.
type ShellAction struct {
	Command string
}

// New returns a ShellAction that runs command.
func New(command string) *ShellAction {
	return &ShellAction{Command: command}
}

// Run implements action.Action. The interpreter must exist on the host's
// search path — its absence surfaces here as an ordinary task failure, not
// a separate configuration error.
func (s *ShellAction) Run(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executing shell command.", "command", s.Command)

	out, err := script.Echo(s.Command).Exec("sh").String()
	if err != nil {
		return action.Output{}, fmt.Errorf("shell command %q failed: %w", s.Command, err)
	}
	return action.NewOutput(out), nil
}
