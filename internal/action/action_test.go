package action

import (
	"context"
	"errors"
	"testing"

	"github.com/skull8888888/dagrs/internal/envvar"
	"github.com/skull8888888/dagrs/internal/valuebox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncActionInline(t *testing.T) {
	var a Action = Func(func(ctx context.Context, in Input, env *envvar.Env) (Output, error) {
		return NewOutput(in.Len()), nil
	})

	out, err := a.Run(context.Background(), NewInput(nil), envvar.New())
	require.NoError(t, err)
	got, ok := OutputAs[int](out)
	require.True(t, ok)
	assert.Equal(t, 0, got)
}

// countingAction is a stateful Action: it carries its own fields and
// mutates them across invocations. The Engine invokes each task's action
// exactly once per run, so this mutation is safe within a single run.
type countingAction struct {
	calls int
}

func (c *countingAction) Run(ctx context.Context, in Input, env *envvar.Env) (Output, error) {
	c.calls++
	return EmptyOutput(), nil
}

func TestStatefulAction(t *testing.T) {
	a := &countingAction{}
	_, err := a.Run(context.Background(), NewInput(nil), envvar.New())
	require.NoError(t, err)
	assert.Equal(t, 1, a.calls)
}

func TestFuncActionFailure(t *testing.T) {
	boom := errors.New("boom")
	var a Action = Func(func(ctx context.Context, in Input, env *envvar.Env) (Output, error) {
		return Output{}, boom
	})

	_, err := a.Run(context.Background(), NewInput(nil), envvar.New())
	assert.ErrorIs(t, err, boom)
}

func TestOutputEmptyVsValue(t *testing.T) {
	empty := EmptyOutput()
	assert.True(t, empty.IsEmpty())

	val := NewOutput("x")
	assert.False(t, val.IsEmpty())
	got, ok := OutputAs[string](val)
	require.True(t, ok)
	assert.Equal(t, "x", got)
}

func TestInputOrderPreserved(t *testing.T) {
	in := NewInput([]valuebox.Box{valuebox.Wrap(1), valuebox.Wrap(2), valuebox.Wrap(3)})
	require.Equal(t, 3, in.Len())
	for i, want := range []int{1, 2, 3} {
		got, ok := AtAs[int](in, i)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}
