package refsync

import "github.com/refwork/refctl/internal/workspace"

// Computer memoizes dependency closures for one run. Many projects
// share sub-dependencies, so each project's closure is computed once
// and reused.
type Computer struct {
	graph      *workspace.Graph
	transitive bool
	memo       map[string]*closureSlot
}

// closureSlot is reserved in the memo before its project's dependencies
// are walked. A cyclic graph therefore re-enters an in-progress slot
// and observes the partial closure collected so far instead of
// recursing forever. Cyclic workspaces get an incomplete reference set;
// rejecting them is the graph provider's job.
type closureSlot struct {
	nodes []workspace.ProjectNode
}

func NewComputer(graph *workspace.Graph, transitive bool) *Computer {
	return &Computer{
		graph:      graph,
		transitive: transitive,
		memo:       make(map[string]*closureSlot),
	}
}

// Closure returns the ordered, name-deduplicated dependency projects of
// name: direct dependencies first in provider edge order, then (when
// transitive inclusion is on) each direct dependency's own closure in
// turn. Edges whose target is not a workspace project are external
// packages and are skipped. A project never appears in its own closure.
func (c *Computer) Closure(name string) []workspace.ProjectNode {
	if slot, ok := c.memo[name]; ok {
		return slot.snapshot()
	}
	slot := &closureSlot{}
	c.memo[name] = slot

	seen := map[string]bool{name: true}
	directs := make([]workspace.ProjectNode, 0)
	for _, edge := range c.graph.DependenciesOf(name) {
		node, ok := c.graph.Node(edge.Target)
		if !ok {
			continue
		}
		if seen[node.Name] {
			continue
		}
		seen[node.Name] = true
		slot.nodes = append(slot.nodes, node)
		directs = append(directs, node)
	}

	if c.transitive {
		for _, direct := range directs {
			for _, node := range c.Closure(direct.Name) {
				if seen[node.Name] {
					continue
				}
				seen[node.Name] = true
				slot.nodes = append(slot.nodes, node)
			}
		}
	}
	return slot.snapshot()
}

func (s *closureSlot) snapshot() []workspace.ProjectNode {
	out := make([]workspace.ProjectNode, len(s.nodes))
	copy(out, s.nodes)
	return out
}
