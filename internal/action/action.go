// Package action defines the Action contract: the behavior of a task, a
// function of (Input, Env) producing an Output or a failure. Two concrete
// shapes are provided — an inline function and a stateful object — both
// exposed through the single Action interface so the Engine never branches
// on which shape it holds.
package action

import (
	"context"

	"github.com/skull8888888/dagrs/internal/envvar"
	"github.com/skull8888888/dagrs/internal/valuebox"
)

// Input is the ordered sequence of a task's predecessor Outputs, in
// predecessor-declaration order. A predecessor that was skipped or failed
// contributes no entry — it is omitted, not represented as a null.
type Input struct {
	values []valuebox.Box
}

// NewInput builds an Input from an ordered slice of predecessor outputs.
func NewInput(values []valuebox.Box) Input {
	return Input{values: append([]valuebox.Box(nil), values...)}
}

// Len returns the number of entries in the Input.
func (in Input) Len() int { return len(in.values) }

// At returns the entry at position i.
func (in Input) At(i int) valuebox.Box { return in.values[i] }

// All returns the entries in predecessor-declaration order.
func (in Input) All() []valuebox.Box { return in.values }

// AtAs is a convenience wrapper combining At and valuebox.UnwrapAs.
func AtAs[T any](in Input, i int) (T, bool) {
	return valuebox.UnwrapAs[T](in.At(i))
}

// Output is either a produced value or an explicit empty marker — exactly
// one of the two, never both, never neither.
type Output struct {
	box   valuebox.Box
	empty bool
}

// NewOutput wraps v as a produced Output value.
func NewOutput(v any) Output {
	return Output{box: valuebox.Wrap(v)}
}

// EmptyOutput returns an Output signaling the task ran successfully but
// produced no value.
func EmptyOutput() Output {
	return Output{empty: true}
}

// IsEmpty reports whether the Output is the explicit empty marker.
func (o Output) IsEmpty() bool { return o.empty }

// Box returns the wrapped value box. Meaningless if IsEmpty is true.
func (o Output) Box() valuebox.Box { return o.box }

// OutputAs is a convenience wrapper combining Output.Box and valuebox.UnwrapAs.
func OutputAs[T any](o Output) (T, bool) {
	if o.empty {
		var zero T
		return zero, false
	}
	return valuebox.UnwrapAs[T](o.box)
}

// Action is the behavior of a Task: given an Input and the shared, frozen
// Env, produce an Output or report a failure. The returned error is opaque
// to the Engine — it only distinguishes success from failure.
type Action interface {
	Run(ctx context.Context, in Input, env *envvar.Env) (Output, error)
}

// Func adapts a plain function into an Action — the "inline" shape. Most
// tasks use this: no state, just a pure function of (Input, Env).
type Func func(ctx context.Context, in Input, env *envvar.Env) (Output, error)

// Run implements Action.
func (f Func) Run(ctx context.Context, in Input, env *envvar.Env) (Output, error) {
	return f(ctx, in, env)
}
