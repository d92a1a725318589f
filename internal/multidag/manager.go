// Package multidag implements the Manager: a named collection of Dags that
// can be run individually or all at once, aggregating failures without
// discarding the results of the Dags that succeeded.
package multidag

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/skull8888888/dagrs/internal/ctxlog"
	"github.com/skull8888888/dagrs/internal/engine"
)

// Manager holds a set of named Dags and runs them on request. It is the
// generalization of a single Dag to the case where a process needs to
// drive more than one independent task graph, each identified by name.
type Manager struct {
	mu   sync.Mutex
	dags map[string]*engine.Dag
	// order records Register call order so List and logging are
	// deterministic, the same way engine.Dag tracks task insertion order.
	order []string
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{dags: make(map[string]*engine.Dag)}
}

// Register adds a Dag under name. Registering the same name twice replaces
// the previous Dag under that name.
func (m *Manager) Register(name string, d *engine.Dag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.dags[name]; !exists {
		m.order = append(m.order, name)
	}
	m.dags[name] = d
}

// List returns the registered Dag names in registration order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// Get returns the Dag registered under name, so a caller can inspect its
// results after RunDag or RunAll.
func (m *Manager) Get(name string) (*engine.Dag, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dags[name]
	return d, ok
}

// RunDag starts the single named Dag and returns whether it succeeded.
func (m *Manager) RunDag(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	d, ok := m.dags[name]
	m.mu.Unlock()
	if !ok {
		return false, fmt.Errorf("multidag: no dag registered under name %q", name)
	}
	return d.Start(ctx)
}

// RunAll starts every registered Dag independently and concurrently. A Dag
// that fails does not stop or roll back any other Dag: every Dag that
// succeeded keeps its committed, queryable results in the Manager. If one
// or more Dags failed, RunAll returns a non-nil *MultiRunError naming them;
// it returns nil only when every registered Dag succeeded.
//
// Unlike a lone Dag.Start, RunAll requires ctx to already carry a logger
// (see ctxlog.MustFromContext): every registered Dag's task logs interleave
// on the same stream, so falling back to the default global logger would
// make one Dag's output indistinguishable from another's.
func (m *Manager) RunAll(ctx context.Context) error {
	names := m.List()
	logger := ctxlog.MustFromContext(ctx)
	logger.Info("Running all registered dags.", "count", len(names))

	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := make(map[string]error, len(names))

	wg.Add(len(names))
	for _, name := range names {
		go func(name string) {
			defer wg.Done()
			ok, err := m.RunDag(ctx, name)
			if err != nil {
				mu.Lock()
				failures[name] = err
				mu.Unlock()
				return
			}
			if !ok {
				mu.Lock()
				failures[name] = nil
				mu.Unlock()
			}
		}(name)
	}
	wg.Wait()

	if len(failures) == 0 {
		return nil
	}

	failed := make([]string, 0, len(failures))
	for name := range failures {
		failed = append(failed, name)
	}
	sort.Strings(failed)

	return &MultiRunError{Failed: failed, Causes: failures}
}

// MultiRunError names every Dag that failed during a RunAll call. Causes
// maps a failed Dag's name to the error its Start call returned, which is
// nil when Start returned false without an error (an ordinary task failure
// rather than a structural one).
type MultiRunError struct {
	Failed []string
	Causes map[string]error
}

func (e *MultiRunError) Error() string {
	return fmt.Sprintf("multidag: %d dag(s) failed: %s", len(e.Failed), strings.Join(e.Failed, ", "))
}
