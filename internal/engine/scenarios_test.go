package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/ctxlog"
	"github.com/skull8888888/dagrs/internal/engine"
	"github.com/skull8888888/dagrs/internal/envvar"
	"github.com/skull8888888/dagrs/internal/idalloc"
	"github.com/skull8888888/dagrs/internal/status"
	"github.com/skull8888888/dagrs/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopLogger discards everything, keeping scenario test output quiet.
func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// multiplyAdd returns an Action computing sum(input_i * env[base]) + constant.
func multiplyAdd(constant int) action.Func {
	return func(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
		base, ok := envvar.Get[int](env, "base")
		if !ok {
			return action.Output{}, errors.New("env[base] missing or wrong type")
		}
		sum := 0
		for i := 0; i < in.Len(); i++ {
			v, ok := action.AtAs[int](in, i)
			if !ok {
				return action.Output{}, errors.New("unexpected input type")
			}
			sum += v * base
		}
		return action.NewOutput(sum + constant), nil
	}
}

// TestDiamondOfDiamondsComputesExpectedSink builds a seven-task
// diamond-of-diamonds graph and checks the sink's computed value.
func TestDiamondOfDiamondsComputesExpectedSink(t *testing.T) {
	a := task.NewInline("A", multiplyAdd(1))
	b := task.NewInline("B", multiplyAdd(2))
	c := task.NewInline("C", multiplyAdd(4))
	d := task.NewInline("D", multiplyAdd(8))
	e := task.NewInline("E", multiplyAdd(16))
	f := task.NewInline("F", multiplyAdd(32))
	g := task.NewInline("G", multiplyAdd(64))

	b.SetPredecessors([]idalloc.TaskID{a.ID()})
	c.SetPredecessors([]idalloc.TaskID{a.ID()})
	d.SetPredecessors([]idalloc.TaskID{a.ID()})
	e.SetPredecessors([]idalloc.TaskID{b.ID(), c.ID()})
	f.SetPredecessors([]idalloc.TaskID{c.ID(), d.ID()})
	g.SetPredecessors([]idalloc.TaskID{b.ID(), e.ID(), f.ID()})

	dag := engine.New()
	dag.WithTasks([]task.Task{a, b, c, d, e, f, g})
	env := envvar.New()
	env.Set("base", 2)
	dag.SetEnv(env)

	ok, err := dag.Start(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	result, err := engine.GetResult[int](dag)
	require.NoError(t, err)
	assert.Equal(t, 272, result)
}

// TestMidChainFailureSkipsDownstreamTasks checks that a mid-chain failure
// latches the continue flag, skips the remaining chain without invoking it,
// and retains the failing task's error for later inspection.
func TestMidChainFailureSkipsDownstreamTasks(t *testing.T) {
	var cInvoked bool

	a := task.NewInline("A", func(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
		return action.NewOutput(1), nil
	})
	b := task.NewInline("B", func(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
		return action.Output{}, errors.New("b blew up")
	})
	c := task.NewInline("C", func(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
		cInvoked = true
		return action.NewOutput(3), nil
	})
	b.SetPredecessors([]idalloc.TaskID{a.ID()})
	c.SetPredecessors([]idalloc.TaskID{b.ID()})

	dag := engine.New()
	dag.WithTasks([]task.Task{a, b, c})

	ok, err := dag.Start(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, dag.Succeeded(a.ID()))
	_, hasOutputA := dag.Output(a.ID())
	assert.True(t, hasOutputA)
	_, hasErrA := dag.Err(a.ID())
	assert.False(t, hasErrA, "a succeeded, so it must not carry a recorded error")

	assert.False(t, dag.Succeeded(b.ID()))
	_, hasOutputB := dag.Output(b.ID())
	assert.False(t, hasOutputB)
	bErr, hasErrB := dag.Err(b.ID())
	require.True(t, hasErrB, "b's failure must be recoverable via Dag.Err")
	assert.ErrorContains(t, bErr, "b blew up")
	var actionErr *status.ActionError
	require.ErrorAs(t, bErr, &actionErr)
	assert.Equal(t, b.ID(), actionErr.Task)
	assert.Equal(t, "B", actionErr.Name)

	assert.False(t, dag.Succeeded(c.ID()))
	_, hasOutputC := dag.Output(c.ID())
	assert.False(t, hasOutputC)
	_, hasErrC := dag.Err(c.ID())
	assert.False(t, hasErrC, "c was skipped, not run, so it must carry no recorded error")
	assert.False(t, cInvoked, "C's action must never be invoked once continue latches false")
}

// TestCyclicGraphRejectedBeforeAnyActionRuns checks that a cyclic graph is
// refused before any action runs.
func TestCyclicGraphRejectedBeforeAnyActionRuns(t *testing.T) {
	var invoked bool
	noop := func(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
		invoked = true
		return action.EmptyOutput(), nil
	}

	a := task.NewInline("A", noop)
	b := task.NewInline("B", noop)
	c := task.NewInline("C", noop)
	b.SetPredecessors([]idalloc.TaskID{a.ID()})
	c.SetPredecessors([]idalloc.TaskID{b.ID()})
	// close the cycle: B depends on C too.
	b.SetPredecessors([]idalloc.TaskID{a.ID(), c.ID()})

	dag := engine.New()
	dag.WithTasks([]task.Task{a, b, c})

	ok, err := dag.Start(context.Background())
	assert.False(t, ok)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrCycle)
	assert.False(t, invoked, "no action may run once a cycle is detected")
}

// TestEnvTypeMismatchIsCleanMissNotPanic checks that requesting the wrong
// type back from Env is a clean miss, not a panic or an implicit
// conversion.
func TestEnvTypeMismatchIsCleanMissNotPanic(t *testing.T) {
	env := envvar.New()
	env.Set("base", 2)

	a := task.NewInline("A", func(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
		_, ok := envvar.Get[string](env, "base")
		if !ok {
			return action.NewOutput("fell back"), nil
		}
		return action.NewOutput("should not happen"), nil
	})

	dag := engine.New()
	dag.AddTask(a)
	dag.SetEnv(env)

	ok, err := dag.Start(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	result, err := engine.GetResult[string](dag)
	require.NoError(t, err)
	assert.Equal(t, "fell back", result)
}

// indexOf returns the position of id within order, or -1 if absent.
func indexOf(order []idalloc.TaskID, id idalloc.TaskID) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}

// TestPlannedOrderRespectsDependenciesAcrossRuns builds the same
// a-precedes-{b,c} graph twice and checks that both runs' planned orders
// agree on every dependency relationship — id values differ between the two
// builds because task ids are allocated from a single global counter, so
// the comparison is by relative rank rather than by raw id equality.
func TestPlannedOrderRespectsDependenciesAcrossRuns(t *testing.T) {
	build := func() (*engine.Dag, task.Task, task.Task, task.Task) {
		noop := func(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
			return action.EmptyOutput(), nil
		}
		a := task.NewInline("A", noop)
		b := task.NewInline("B", noop)
		c := task.NewInline("C", noop)
		b.SetPredecessors([]idalloc.TaskID{a.ID()})
		c.SetPredecessors([]idalloc.TaskID{a.ID()})
		dag := engine.New()
		dag.WithTasks([]task.Task{a, b, c})
		return dag, a, b, c
	}

	dag1, a1, b1, c1 := build()
	dag2, a2, b2, c2 := build()

	ctx := ctxlog.WithLogger(context.Background(), noopLogger())

	ok1, err := dag1.Start(ctx)
	require.NoError(t, err)
	require.True(t, ok1)

	ok2, err := dag2.Start(ctx)
	require.NoError(t, err)
	require.True(t, ok2)

	order1 := dag1.PlannedOrder()
	order2 := dag2.PlannedOrder()
	require.Len(t, order1, 3)
	require.Len(t, order2, 3)

	for _, run := range []struct {
		order     []idalloc.TaskID
		a, b, c   idalloc.TaskID
		runNumber int
	}{
		{order1, a1.ID(), b1.ID(), c1.ID(), 1},
		{order2, a2.ID(), b2.ID(), c2.ID(), 2},
	} {
		aIdx, bIdx, cIdx := indexOf(run.order, run.a), indexOf(run.order, run.b), indexOf(run.order, run.c)
		require.NotEqual(t, -1, aIdx, "run %d: a missing from planned order", run.runNumber)
		require.NotEqual(t, -1, bIdx, "run %d: b missing from planned order", run.runNumber)
		require.NotEqual(t, -1, cIdx, "run %d: c missing from planned order", run.runNumber)
		assert.Less(t, aIdx, bIdx, "run %d: a must precede b", run.runNumber)
		assert.Less(t, aIdx, cIdx, "run %d: a must precede c", run.runNumber)
	}

	// Repeated calls against the same already-started dag must also be
	// stable, since PlannedOrder just returns the order computed once at
	// Start rather than recomputing it.
	assert.Equal(t, order1, dag1.PlannedOrder())
	assert.Equal(t, order2, dag2.PlannedOrder())
}
