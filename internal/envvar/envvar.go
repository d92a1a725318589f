// Package envvar implements EnvVar, the run-wide, read-only-after-start
// map of typed values shared by every task in a run.
package envvar

import (
	"sync"

	"github.com/skull8888888/dagrs/internal/valuebox"
)

// Env is a mapping from string keys to valuebox.Box. It is safe to write
// before a run starts and safe to read from any number of goroutines once
// frozen; a frozen Env panics on Set so a stray write during a run surfaces
// immediately instead of racing.
type Env struct {
	mu     sync.RWMutex
	values map[string]valuebox.Box
	frozen bool
}

// New returns an empty, unfrozen Env.
func New() *Env {
	return &Env{values: make(map[string]valuebox.Box)}
}

// Set stores value under key. It panics if the Env has already been frozen
// by Freeze — Set is only valid before a run begins.
func (e *Env) Set(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.frozen {
		panic("envvar: Set called on a frozen Env")
	}
	e.values[key] = valuebox.Wrap(value)
}

// Freeze marks the Env read-only. The Engine calls this once, immediately
// before start, so that reads afterward require no coordination.
func (e *Env) Freeze() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frozen = true
}

// Get retrieves the value stored under key, viewed as T. ok is false if the
// key is absent or its stored value is not exactly a T.
func Get[T any](e *Env, key string) (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	box, present := e.values[key]
	if !present {
		var zero T
		return zero, false
	}
	return valuebox.UnwrapAs[T](box)
}
