// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed acyclic graph operations for topological sorting
// and cycle detection. It orders scripts so that every script runs after the
// scripts it depends on.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError[K comparable] struct {
		// Cycle contains the nodes left unordered by the sort: every node on a
		// cycle plus the nodes downstream of one, in insertion order.
		Cycle []K
	}

	// Graph is a directed graph for topological sorting.
	// An edge from A to B means A must complete before B starts.
	Graph[K comparable] struct {
		// adjacency maps each node index to the indices of its dependents.
		adjacency [][]int
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []K
		// index maps a node to its position in nodes.
		index map[K]int
	}
)

func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, n := range e.Cycle {
		parts[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(parts, " -> "))
}

// New creates an empty Graph.
func New[K comparable]() *Graph[K] {
	return &Graph[K]{index: make(map[K]int)}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph[K]) AddNode(n K) {
	g.indexOf(n)
}

// AddEdge adds a directed edge from -> to, meaning "from" must run before "to".
// Both nodes are implicitly added if they don't exist. Repeated edges are kept
// and only raise the in-degree of "to".
func (g *Graph[K]) AddEdge(from, to K) {
	f := g.indexOf(from)
	t := g.indexOf(to)
	g.adjacency[f] = append(g.adjacency[f], t)
}

// HasNode reports whether n was added to the graph.
func (g *Graph[K]) HasNode(n K) bool {
	_, ok := g.index[n]
	return ok
}

// Len returns the number of nodes.
func (g *Graph[K]) Len() int {
	return len(g.nodes)
}

func (g *Graph[K]) indexOf(n K) int {
	if i, ok := g.index[n]; ok {
		return i
	}
	i := len(g.nodes)
	g.index[n] = i
	g.nodes = append(g.nodes, n)
	g.adjacency = append(g.adjacency, nil)
	return i
}

// TopologicalSort returns a valid execution order using Kahn's algorithm.
// Returns *CycleError if the graph contains a cycle.
// The returned order is deterministic: nodes that become ready together
// appear in the order they were first added to the graph.
func (g *Graph[K]) TopologicalSort() ([]K, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make([]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, n := range neighbors {
			inDegree[n]++
		}
	}

	queue := make([]int, 0, len(g.nodes))
	for i := range g.nodes {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	result := make([]K, 0, len(g.nodes))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		result = append(result, g.nodes[i])

		for _, n := range g.adjacency[i] {
			inDegree[n]--
			if inDegree[n] == 0 {
				queue = append(queue, n)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycle []K
		for i, n := range g.nodes {
			if inDegree[i] > 0 {
				cycle = append(cycle, n)
			}
		}
		return nil, &CycleError[K]{Cycle: cycle}
	}

	return result, nil
}
