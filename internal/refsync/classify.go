package refsync

import (
	"path"

	"github.com/refwork/refctl/internal/workspace"
)

// Classification of one existing reference entry.
type Classification int

const (
	// Local references stay inside the owning project's boundary and
	// are preserved verbatim.
	Local Classification = iota
	// CrossProject references point at another project's build unit and
	// are always regenerated from the graph.
	CrossProject
)

// Classify decides whether refPath, written relative to the owning
// project's manifest directory, is local to that project. A reference
// is cross-project when it resolves outside owningRoot, or when the
// walk from the resolved directory up to owningRoot passes through
// another registered project root: reaching into a nested project by
// path is not a hand-maintained local pointer.
func Classify(refPath, owningRoot string, allRoots map[string]workspace.ProjectNode) Classification {
	resolved := resolveDir(owningRoot, refPath)
	if !isUnder(resolved, owningRoot) {
		return CrossProject
	}
	for dir := resolved; dir != owningRoot; dir = path.Dir(dir) {
		if _, ok := allRoots[dir]; ok {
			return CrossProject
		}
	}
	return Local
}
