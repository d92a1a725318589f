package engine

import (
	"sync"
	"sync/atomic"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/idalloc"
)

// execState holds everything mutated during a single run. Each task id owns
// exactly one entry in results and success — only the task itself ever
// writes its own entry, and it does so before closing its done channel, so
// readers that have observed the channel close need no further
// synchronization to read that entry.
type execState struct {
	mu      sync.RWMutex
	results map[idalloc.TaskID]action.Output
	success map[idalloc.TaskID]bool
	// errs holds the ActionError recorded for a task whose action returned
	// an error. A skipped task has no entry here — only an actual action
	// failure produces one.
	errs map[idalloc.TaskID]error

	// cont is the run-wide continue flag: starts true, latches false on the
	// first action failure, and stays false for the rest of the run.
	cont atomic.Bool

	// done holds one one-shot completion signal per task: closing the
	// channel is the "fired" transition, safe to observe from any number of
	// goroutines any number of times.
	done map[idalloc.TaskID]chan struct{}
}

func newExecState(ids []idalloc.TaskID) *execState {
	es := &execState{
		results: make(map[idalloc.TaskID]action.Output, len(ids)),
		success: make(map[idalloc.TaskID]bool, len(ids)),
		errs:    make(map[idalloc.TaskID]error),
		done:    make(map[idalloc.TaskID]chan struct{}, len(ids)),
	}
	es.cont.Store(true)
	for _, id := range ids {
		es.done[id] = make(chan struct{})
	}
	return es
}

func (es *execState) recordSuccess(id idalloc.TaskID, out action.Output) {
	es.mu.Lock()
	es.results[id] = out
	es.success[id] = true
	es.mu.Unlock()
}

// recordFailure marks id as failed and retains the ActionError describing
// why, so a caller can recover it after the run via Dag.Err.
func (es *execState) recordFailure(id idalloc.TaskID, err error) {
	es.mu.Lock()
	es.success[id] = false
	es.errs[id] = err
	es.mu.Unlock()
}

// recordSkip marks id as not succeeded without an associated error — used
// when a task never ran because an earlier failure latched cont false.
func (es *execState) recordSkip(id idalloc.TaskID) {
	es.mu.Lock()
	es.success[id] = false
	es.mu.Unlock()
}

// taskErr returns the ActionError recorded for id, if its action failed.
func (es *execState) taskErr(id idalloc.TaskID) (error, bool) {
	es.mu.RLock()
	defer es.mu.RUnlock()
	err, ok := es.errs[id]
	return err, ok
}

func (es *execState) output(id idalloc.TaskID) (action.Output, bool) {
	es.mu.RLock()
	defer es.mu.RUnlock()
	out, ok := es.results[id]
	return out, ok
}

func (es *execState) succeeded(id idalloc.TaskID) bool {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.success[id]
}

func (es *execState) allSucceeded(ids []idalloc.TaskID) bool {
	es.mu.RLock()
	defer es.mu.RUnlock()
	for _, id := range ids {
		if !es.success[id] {
			return false
		}
	}
	return true
}
