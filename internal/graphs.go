// This file contains thin wrappers around the graph module
// for managing graph structures in the tournament data.
package internal

import (
	"errors"
	"fmt"
	"iter"

	"github.com/dominikbraun/graph"
)

type GraphNode interface {
	// A unique ID that is used as the node hash
	Id() string
}

func getNodeId[T GraphNode](node T) string {
	return node.Id()
}

type DependencyGraph[T GraphNode] struct {
	graph.Graph[string, T]
}

func newDependencyGraph[T GraphNode]() DependencyGraph[T] {
	return DependencyGraph[T]{
		Graph: graph.New(getNodeId[T], graph.Directed(), graph.Acyclic(), graph.PreventCycles()),
	}
}

// Adds the node unless a node with the same id is already present
func (g *DependencyGraph[T]) AddNode(node T) error {
	err := g.Graph.AddVertex(node)
	if errors.Is(err, graph.ErrVertexAlreadyExists) {
		return nil
	}
	return err
}

func (g *DependencyGraph[T]) AddEdge(source, target T) error {
	err := g.Graph.AddEdge(source.Id(), target.Id())
	if errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return nil
	}
	return err
}

func (g *DependencyGraph[T]) BreadthSearchIter(start T) iter.Seq2[T, int] {
	iterator := func(yield func(v T, depth int) bool) {
		visitor := func(key string, depth int) bool {
			v, _ := g.Vertex(key)
			return !yield(v, depth)
		}
		graph.BFSWithDepth(g.Graph, start.Id(), visitor)
	}
	return iterator
}

// A RoundNode identifies one round of one stage in a tournament.
type RoundNode struct {
	Stage string
	Round int
}

func (n RoundNode) Id() string {
	return fmt.Sprintf("%s:%d", n.Stage, n.Round)
}

// A RoundGraph has the rounds of a tournament as its nodes.
// A directed edge from round a to round b means that the
// pairings of b were derived from the results of a.
//
// When a result in a round changes, every round reachable
// from it is stale.
type RoundGraph struct {
	DependencyGraph[RoundNode]
}

func NewRoundGraph() *RoundGraph {
	return &RoundGraph{DependencyGraph: newDependencyGraph[RoundNode]()}
}

// Links source to target, adding both rounds if needed
func (g *RoundGraph) Link(source, target RoundNode) error {
	if err := g.AddNode(source); err != nil {
		return err
	}
	if err := g.AddNode(target); err != nil {
		return err
	}
	return g.AddEdge(source, target)
}

// Returns every round that transitively depends on the start
// round. The start round itself is not included.
func (g *RoundGraph) Downstream(start RoundNode) []RoundNode {
	if _, err := g.Vertex(start.Id()); err != nil {
		return nil
	}

	downstream := make([]RoundNode, 0, 4)
	for node := range g.BreadthSearchIter(start) {
		if node == start {
			continue
		}
		downstream = append(downstream, node)
	}
	return downstream
}
