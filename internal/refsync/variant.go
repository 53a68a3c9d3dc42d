package refsync

import (
	"path"

	"github.com/refwork/refctl/internal/tree"
	"github.com/refwork/refctl/internal/workspace"
)

// ResolveTarget picks the workspace-relative reference target for a
// dependency. Reconciling a default manifest always targets the
// dependency's bare root directory, letting the consumer's default
// resolution apply. Reconciling a named variant prefers the
// dependency's manifest of the same variant name, then the first
// recognized variant the dependency owns, then the bare root.
func ResolveTarget(t tree.Tree, dep workspace.ProjectNode, variant string, recognized []string) string {
	if variant == "" {
		return dep.Root
	}
	if p := path.Join(dep.Root, variant); t.Exists(p) {
		return p
	}
	for _, name := range recognized {
		if p := path.Join(dep.Root, name); t.Exists(p) {
			return p
		}
	}
	return dep.Root
}
