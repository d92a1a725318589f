// Package graph implements the directed graph over task ids that backs the
// Engine: edge insertion, predecessor/successor queries, cycle detection,
// and a deterministic topological ordering.
//
// The node bookkeeping (a mutex-guarded map of nodes, each tracking its own
// deps and dependents as sets) generalizes a string-keyed graph shape to the
// TaskID the rest of the module works with, and adds the topological
// ordering added on top of that shape.
package graph

import (
	"sync"

	"github.com/skull8888888/dagrs/internal/idalloc"
	"github.com/skull8888888/dagrs/internal/status"
)

type node struct {
	id         idalloc.TaskID
	deps       map[idalloc.TaskID]struct{}
	dependents map[idalloc.TaskID]struct{}
}

// Graph is a collection of task ids and directed predecessor->successor
// edges between them. All operations are concurrency-safe, though in
// practice the Engine builds a Graph once, single-threaded, before start.
type Graph struct {
	mu    sync.RWMutex
	nodes map[idalloc.TaskID]*node
	// order records AddNode insertion order, used to make TopologicalOrder
	// deterministic among nodes of equal current in-degree.
	order []idalloc.TaskID
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[idalloc.TaskID]*node)}
}

// AddNode adds a node for id. A repeated call for the same id does nothing.
func (g *Graph) AddNode(id idalloc.TaskID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[idalloc.TaskID]struct{}),
		dependents: make(map[idalloc.TaskID]struct{}),
	}
	g.order = append(g.order, id)
}

// AddEdge records that to depends on from (from -> to, predecessor ->
// successor). Repeated edges are idempotent. A self-referential edge
// (from == to) is recorded rather than rejected outright: it leaves that
// node's in-degree permanently unsatisfiable, so TopologicalOrder reports
// it as part of a cycle — the same outcome a longer cycle produces.
func (g *Graph) AddEdge(from, to idalloc.TaskID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	fromNode, ok := g.nodes[from]
	if !ok {
		return &status.UnknownPredecessorError{Task: to, Predecessor: from}
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return &status.UnknownPredecessorError{Task: to, Predecessor: from}
	}

	toNode.deps[from] = struct{}{}
	fromNode.dependents[to] = struct{}{}
	return nil
}

// Predecessors returns the ids that id directly depends on.
func (g *Graph) Predecessors(id idalloc.TaskID) []idalloc.TaskID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make([]idalloc.TaskID, 0, len(n.deps))
	for dep := range n.deps {
		out = append(out, dep)
	}
	return out
}

// Successors returns the ids that directly depend on id.
func (g *Graph) Successors(id idalloc.TaskID) []idalloc.TaskID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make([]idalloc.TaskID, 0, len(n.dependents))
	for dep := range n.dependents {
		out = append(out, dep)
	}
	return out
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// TopologicalOrder computes a linear ordering of every node via Kahn's
// algorithm. Ties among nodes of equal current in-degree are broken by
// AddNode insertion order, so the result is deterministic given
// deterministic insertion. If the pass cannot emit every node, the graph
// contains a cycle: the returned error names every node still holding
// nonzero in-degree.
func (g *Graph) TopologicalOrder() ([]idalloc.TaskID, error) {
	g.mu.RLock()
	inDegree := make(map[idalloc.TaskID]int, len(g.nodes))
	insertionOrder := make([]idalloc.TaskID, len(g.order))
	copy(insertionOrder, g.order)
	for id, n := range g.nodes {
		inDegree[id] = len(n.deps)
	}
	dependentsOf := make(map[idalloc.TaskID][]idalloc.TaskID, len(g.nodes))
	for id, n := range g.nodes {
		deps := make([]idalloc.TaskID, 0, len(n.dependents))
		for d := range n.dependents {
			deps = append(deps, d)
		}
		dependentsOf[id] = deps
	}
	g.mu.RUnlock()

	emitted := make(map[idalloc.TaskID]bool, len(insertionOrder))
	result := make([]idalloc.TaskID, 0, len(insertionOrder))

	for len(result) < len(insertionOrder) {
		progressed := false
		for _, id := range insertionOrder {
			if emitted[id] || inDegree[id] != 0 {
				continue
			}
			emitted[id] = true
			result = append(result, id)
			for _, dependent := range dependentsOf[id] {
				inDegree[dependent]--
			}
			progressed = true
			break
		}
		if !progressed {
			break
		}
	}

	if len(result) != len(insertionOrder) {
		var remaining []idalloc.TaskID
		for _, id := range insertionOrder {
			if !emitted[id] {
				remaining = append(remaining, id)
			}
		}
		return nil, &status.CycleError{Remaining: remaining}
	}

	return result, nil
}
