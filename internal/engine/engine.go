// Package engine implements the Dag scheduler: it ingests tasks, builds and
// validates their dependency Graph, dispatches them concurrently with the
// data-flow wiring the component design describes, and exposes the terminal
// result.
//
// The worker shape — one independently schedulable unit of execution per
// task, blocked only while awaiting predecessors — generalizes a
// worker-pool-and-ready-channel dispatch loop into one goroutine per task
// synchronizing on a one-shot completion channel per predecessor,
// satisfying a strict one-unit-per-task concurrency model.
package engine

import (
	"context"
	"sync"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/ctxlog"
	"github.com/skull8888888/dagrs/internal/envvar"
	"github.com/skull8888888/dagrs/internal/graph"
	"github.com/skull8888888/dagrs/internal/idalloc"
	"github.com/skull8888888/dagrs/internal/metrics"
	"github.com/skull8888888/dagrs/internal/status"
	"github.com/skull8888888/dagrs/internal/task"
)

// Dag is the scheduler for a single run of a task graph.
type Dag struct {
	mu       sync.Mutex
	tasks    map[idalloc.TaskID]task.Task
	taskIDs  []idalloc.TaskID // insertion order, mirrors AddTask call order
	env      *envvar.Env
	recorder metrics.Recorder

	started bool
	graph   *graph.Graph
	order   []idalloc.TaskID
	state   *execState
}

// New returns an empty Dag ready to receive tasks.
func New() *Dag {
	return &Dag{
		tasks:    make(map[idalloc.TaskID]task.Task),
		env:      envvar.New(),
		recorder: metrics.NoOp(),
	}
}

// AddTask registers a single task for this run.
func (d *Dag) AddTask(t task.Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.tasks[t.ID()]; exists {
		return
	}
	d.tasks[t.ID()] = t
	d.taskIDs = append(d.taskIDs, t.ID())
}

// WithTasks registers every task in ts.
func (d *Dag) WithTasks(ts []task.Task) {
	for _, t := range ts {
		d.AddTask(t)
	}
}

// SetEnv installs the shared Env for this run. Must be called before Start.
func (d *Dag) SetEnv(env *envvar.Env) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.env = env
}

// SetRecorder installs a metrics.Recorder for this run. Must be called
// before Start. Defaults to a no-op recorder.
func (d *Dag) SetRecorder(r metrics.Recorder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recorder = r
}

// Start builds the Graph, validates it, executes every task, and returns
// whether every task succeeded. Start is single-run: a second call returns
// status.ErrAlreadyStarted without touching the graph.
func (d *Dag) Start(ctx context.Context) (bool, error) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return false, status.ErrAlreadyStarted
	}
	d.started = true

	if len(d.tasks) == 0 {
		d.mu.Unlock()
		return false, status.ErrEmptyRun
	}

	g := graph.New()
	for _, id := range d.taskIDs {
		g.AddNode(id)
	}
	for _, id := range d.taskIDs {
		t := d.tasks[id]
		if t.Action() == nil {
			d.mu.Unlock()
			return false, &status.NoActionError{Task: id}
		}
		for _, pred := range t.Predecessors() {
			if err := g.AddEdge(pred, id); err != nil {
				d.mu.Unlock()
				return false, err
			}
		}
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		d.mu.Unlock()
		return false, err
	}

	d.graph = g
	d.order = order
	d.env.Freeze()
	d.state = newExecState(d.taskIDs)
	tasks := d.tasks
	taskIDs := append([]idalloc.TaskID(nil), d.taskIDs...)
	env := d.env
	recorder := d.recorder
	d.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	logger.Info("Planned execution order computed.", "order", order)

	var wg sync.WaitGroup
	wg.Add(len(taskIDs))
	for _, id := range taskIDs {
		go func(id idalloc.TaskID) {
			defer wg.Done()
			runTask(ctx, tasks[id], d.state, env, recorder, logger)
		}(id)
	}
	wg.Wait()

	return d.state.allSucceeded(taskIDs), nil
}

// Graph exposes the built Graph after a successful Start, primarily for
// inspection and testing.
func (d *Dag) Graph() *graph.Graph {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.graph
}

// PlannedOrder returns the topological order computed at Start.
func (d *Dag) PlannedOrder() []idalloc.TaskID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]idalloc.TaskID(nil), d.order...)
}

// Succeeded reports whether the given task finished with success — false if
// it failed, was skipped, or hasn't run.
func (d *Dag) Succeeded(id idalloc.TaskID) bool {
	d.mu.Lock()
	st := d.state
	d.mu.Unlock()
	if st == nil {
		return false
	}
	return st.succeeded(id)
}

// Output returns the Output stored for id, if any.
func (d *Dag) Output(id idalloc.TaskID) (action.Output, bool) {
	d.mu.Lock()
	st := d.state
	d.mu.Unlock()
	if st == nil {
		return action.Output{}, false
	}
	return st.output(id)
}

// Err returns the *status.ActionError recorded for id's action failure, if
// any. It returns false for a task that succeeded, was skipped rather than
// run, or hasn't run at all.
func (d *Dag) Err(id idalloc.TaskID) (error, bool) {
	d.mu.Lock()
	st := d.state
	d.mu.Unlock()
	if st == nil {
		return nil, false
	}
	return st.taskErr(id)
}

// sinkID returns the id of the run's sink task: the last node in the
// topological order. In a well-formed single-sink graph this is the
// unique node with no successors; for a multi-sink graph it is the
// documented, deterministic disambiguation (see design notes).
func (d *Dag) sinkID() (idalloc.TaskID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.order) == 0 {
		return 0, false
	}
	return d.order[len(d.order)-1], true
}
