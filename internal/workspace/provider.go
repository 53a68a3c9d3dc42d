package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"

	"github.com/refwork/refctl/internal/tree"
)

// Provider supplies the dependency graph snapshot for one run. Loading
// is the run's only suspension point.
type Provider interface {
	Load(ctx context.Context) (*Graph, error)
}

// FileProvider reads a graph snapshot emitted by an external workspace
// analyzer:
//
//	{
//	  "projects":     { "<name>": { "root": "<dir>" }, ... },
//	  "dependencies": { "<name>": [ { "target": "<name-or-package>" }, ... ] }
//	}
//
// Dependency array order is the provider order the closure computer
// relies on.
type FileProvider struct {
	Tree tree.Tree
	Path string
}

type graphFile struct {
	Projects     map[string]graphFileProject `json:"projects"`
	Dependencies map[string][]graphFileEdge  `json:"dependencies"`
}

type graphFileProject struct {
	Root string `json:"root"`
}

type graphFileEdge struct {
	Target string `json:"target"`
}

func (p FileProvider) Load(ctx context.Context) (*Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := p.Tree.Read(p.Path)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", p.Path, err)
	}
	var raw graphFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse graph %s: %w", p.Path, err)
	}

	names := make([]string, 0, len(raw.Projects))
	for name := range raw.Projects {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]ProjectNode, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, ProjectNode{Name: name, Root: path.Clean(raw.Projects[name].Root)})
	}

	edges := make([]DependencyEdge, 0)
	for _, name := range names {
		for _, e := range raw.Dependencies[name] {
			edges = append(edges, DependencyEdge{Source: name, Target: e.Target})
		}
	}

	g, err := NewGraph(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("graph %s: %w", p.Path, err)
	}
	return g, nil
}
