// Package builtinactions provides concrete action.Action implementations
// for print, env_vars, and http_request tasks, implementing the plain
// Input/Env contract the Engine calls.
package builtinactions

import (
	"context"
	"fmt"
	"sort"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/ctxlog"
	"github.com/skull8888888/dagrs/internal/envvar"
)

// PrintAction prints every one of its inputs, in order, to standard output.
// An input holding a map[string]string is printed one entry per line, sorted
// by key; any other input entry is printed with %v.
type PrintAction struct{}

// NewPrint returns a PrintAction.
func NewPrint() *PrintAction { return &PrintAction{} }

// Run implements action.Action.
func (p *PrintAction) Run(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Printing task input.")

	for i, box := range in.All() {
		if m, ok := action.AtAs[map[string]string](in, i); ok {
			printSortedMap(m)
			continue
		}
		fmt.Printf("      %v\n", box)
	}
	return action.EmptyOutput(), nil
}

func printSortedMap(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("      %s = %q\n", k, m[k])
	}
}
