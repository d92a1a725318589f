// Package task defines the scheduling unit: an id, a display name, its
// predecessor ids, and the Action that implements its behavior.
package task

import (
	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/idalloc"
)

// Task is the minimum contract any concrete task polymorphically satisfies.
// The Engine only ever interacts with tasks through this interface, so
// callers may embed DefaultTask and add their own bookkeeping (labels,
// tags, retries) without the Engine knowing the difference.
type Task interface {
	ID() idalloc.TaskID
	Name() string
	Predecessors() []idalloc.TaskID
	Action() action.Action
	SetPredecessors(ids []idalloc.TaskID)
}

// DefaultTask is the provided concrete implementation, storing the four
// mandatory fields directly.
type DefaultTask struct {
	id           idalloc.TaskID
	name         string
	predecessors []idalloc.TaskID
	act          action.Action
}

// NewInline builds a DefaultTask around an inline function action.
func NewInline(name string, fn action.Func) *DefaultTask {
	return &DefaultTask{id: idalloc.Next(), name: name, act: fn}
}

// NewStateful builds a DefaultTask around a stateful object action.
func NewStateful(name string, act action.Action) *DefaultTask {
	return &DefaultTask{id: idalloc.Next(), name: name, act: act}
}

// NewNamed builds a DefaultTask with no action assigned yet; the caller
// must call SetAction before the task is ingested by an Engine.
func NewNamed(name string) *DefaultTask {
	return &DefaultTask{id: idalloc.Next(), name: name}
}

// SetAction assigns or replaces the task's action. Used with NewNamed for
// post-hoc action assignment.
func (t *DefaultTask) SetAction(act action.Action) {
	t.act = act
}

// SetPredecessors registers upstream tasks by id, in the order given.
// Duplicates are preserved here — the Graph collapses them into a single
// edge at build time.
func (t *DefaultTask) SetPredecessors(ids []idalloc.TaskID) {
	t.predecessors = append([]idalloc.TaskID(nil), ids...)
}

// ID returns the task's identifier, assigned exactly once at construction.
func (t *DefaultTask) ID() idalloc.TaskID { return t.id }

// Name returns the task's human-facing, non-unique display name.
func (t *DefaultTask) Name() string { return t.name }

// Predecessors returns the task's declared predecessor ids, in declaration order.
func (t *DefaultTask) Predecessors() []idalloc.TaskID { return t.predecessors }

// Action returns the task's behavior, or nil if none was ever assigned.
func (t *DefaultTask) Action() action.Action { return t.act }
