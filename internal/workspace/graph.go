// Package workspace models the project dependency graph consumed by
// reference sync. The graph is a read-only snapshot for one run.
package workspace

import (
	"errors"
	"fmt"
	"sort"
)

var ErrGraphInvalid = errors.New("workspace: invalid graph")

// RootProjectDir marks the synthetic root pseudo-project.
const RootProjectDir = "."

// ProjectNode is one workspace project. Name and Root are both unique;
// Root is workspace-relative and defines the project's ownership
// boundary.
type ProjectNode struct {
	Name string
	Root string
}

// IsRoot reports whether the node is the synthetic root pseudo-project.
func (p ProjectNode) IsRoot() bool {
	return p.Root == RootProjectDir
}

// DependencyEdge is one directed depends-on pair. Target may name a
// package outside the workspace; such edges carry no node.
type DependencyEdge struct {
	Source string
	Target string
}

// Graph is an immutable dependency graph snapshot. Edge order per
// source is preserved exactly as the provider reported it.
type Graph struct {
	nodes map[string]ProjectNode
	edges map[string][]DependencyEdge
}

// NewGraph builds a graph from nodes and edges. Node names and roots
// must be unique.
func NewGraph(nodes []ProjectNode, edges []DependencyEdge) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]ProjectNode, len(nodes)),
		edges: make(map[string][]DependencyEdge, len(nodes)),
	}
	roots := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if n.Name == "" || n.Root == "" {
			return nil, fmt.Errorf("%w: node missing name or root", ErrGraphInvalid)
		}
		if _, dup := g.nodes[n.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate project name %q", ErrGraphInvalid, n.Name)
		}
		if prev, dup := roots[n.Root]; dup {
			return nil, fmt.Errorf("%w: projects %q and %q share root %q", ErrGraphInvalid, prev, n.Name, n.Root)
		}
		g.nodes[n.Name] = n
		roots[n.Root] = n.Name
	}
	for _, e := range edges {
		if _, ok := g.nodes[e.Source]; !ok {
			// Edges from unknown projects carry no information for sync.
			continue
		}
		g.edges[e.Source] = append(g.edges[e.Source], e)
	}
	return g, nil
}

// Node returns the project named name.
func (g *Graph) Node(name string) (ProjectNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// DependenciesOf returns the outgoing edges of name in provider order.
func (g *Graph) DependenciesOf(name string) []DependencyEdge {
	return g.edges[name]
}

// Projects returns every node sorted by name for deterministic
// iteration.
func (g *Graph) Projects() []ProjectNode {
	out := make([]ProjectNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Roots returns the set of all project root directories keyed by root.
func (g *Graph) Roots() map[string]ProjectNode {
	out := make(map[string]ProjectNode, len(g.nodes))
	for _, n := range g.nodes {
		out[n.Root] = n
	}
	return out
}
