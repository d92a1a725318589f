package builtinactions

import (
	"context"
	"os"
	"strings"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/envvar"
)

// EnvVarsAction reads the host process's environment variables into a
// map[string]string Output.
type EnvVarsAction struct{}

// NewEnvVars returns an EnvVarsAction.
func NewEnvVars() *EnvVarsAction { return &EnvVarsAction{} }

// Run implements action.Action.
func (e *EnvVarsAction) Run(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
	all := make(map[string]string)
	for _, entry := range os.Environ() {
		if k, v, ok := strings.Cut(entry, "="); ok {
			all[k] = v
		}
	}
	return action.NewOutput(all), nil
}
