package engine

import (
	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/status"
)

// GetResult retrieves the sink task's Output viewed as T. The sink is the
// node with no successors — the last node in the run's topological order,
// which is always a valid choice regardless of how many nodes in the graph
// happen to have zero successors (see design notes).
//
// It returns status.ErrNoResult if the sink didn't produce an Output
// (it failed, was skipped, or produced the explicit empty marker), and
// status.ErrTypeMismatch if the sink's Output holds a different type.
func GetResult[T any](d *Dag) (T, error) {
	var zero T

	sink, ok := d.sinkID()
	if !ok {
		return zero, status.ErrNoResult
	}

	out, ok := d.Output(sink)
	if !ok || out.IsEmpty() {
		return zero, status.ErrNoResult
	}

	v, ok := action.OutputAs[T](out)
	if !ok {
		return zero, status.ErrTypeMismatch
	}
	return v, nil
}
