package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/envvar"
	"github.com/skull8888888/dagrs/internal/idalloc"
	"github.com/skull8888888/dagrs/internal/metrics"
	"github.com/skull8888888/dagrs/internal/status"
	"github.com/skull8888888/dagrs/internal/task"
	"github.com/skull8888888/dagrs/internal/valuebox"
)

// runTask is the body of a single task's independent unit of execution. It
// suspends at exactly one point — awaiting every predecessor's completion
// signal — then either runs the task's action or, if the run-wide continue
// flag has already latched false, skips it. Either way it records a
// terminal status and fires its own completion signal exactly once, via the
// deferred close below.
func runTask(ctx context.Context, t task.Task, es *execState, env *envvar.Env, rec metrics.Recorder, logger *slog.Logger) {
	id := t.ID()
	log := logger.With("taskID", id, "taskName", t.Name())
	defer close(es.done[id])

	distinctPreds := dedupePredecessors(t.Predecessors())
	for _, pred := range distinctPreds {
		if ch, ok := es.done[pred]; ok {
			<-ch
		}
	}

	if !es.cont.Load() || ctx.Err() != nil {
		log.Warn("Task skipped due to upstream failure or cancellation.")
		es.recordSkip(id)
		rec.ObserveTask("skipped", 0)
		return
	}

	in := buildInput(es, distinctPreds)

	log.Info("Task started.")
	start := time.Now()
	out, err := t.Action().Run(ctx, in, env)
	elapsed := time.Since(start)

	if err != nil {
		log.Error("Task failed.", "error", err)
		es.cont.Store(false)
		es.recordFailure(id, &status.ActionError{Task: id, Name: t.Name(), Err: err})
		rec.ObserveTask("failed", elapsed)
		return
	}

	log.Info("Task succeeded.")
	es.recordSuccess(id, out)
	rec.ObserveTask("succeeded", elapsed)
}

// dedupePredecessors collapses repeated predecessor ids, keeping the first
// occurrence's position — Input contains one entry per distinct
// predecessor, in declaration order.
func dedupePredecessors(ids []idalloc.TaskID) []idalloc.TaskID {
	seen := make(map[idalloc.TaskID]bool, len(ids))
	out := make([]idalloc.TaskID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// buildInput assembles the Input for a task from its distinct predecessors'
// Outputs, in declaration order. A predecessor that was skipped or failed
// has no entry in es.results and contributes nothing to the sequence.
func buildInput(es *execState, distinctPreds []idalloc.TaskID) action.Input {
	boxes := make([]valuebox.Box, 0, len(distinctPreds))
	for _, pred := range distinctPreds {
		out, ok := es.output(pred)
		if !ok {
			continue
		}
		if out.IsEmpty() {
			boxes = append(boxes, valuebox.Box{})
			continue
		}
		boxes = append(boxes, out.Box())
	}
	return action.NewInput(boxes)
}
