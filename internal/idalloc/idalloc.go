// Package idalloc provides the process-wide monotonic TaskId allocator.
package idalloc

import "sync/atomic"

// TaskID uniquely identifies a Task within a process. Assignment is
// monotonic; ids are never reused.
type TaskID uint64

// counter backs the global allocator. It starts at zero so the first
// allocated id is 1 — the zero value of TaskID is reserved to mean
// "no id" for callers that need a sentinel.
var counter atomic.Uint64

// Next returns a new, unique TaskID. Safe for concurrent use.
func Next() TaskID {
	return TaskID(counter.Add(1))
}
