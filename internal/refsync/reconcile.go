package refsync

import (
	"path"

	"github.com/refwork/refctl/internal/manifest"
	"github.com/refwork/refctl/internal/tree"
	"github.com/refwork/refctl/internal/workspace"
)

// Context carries the run-wide inputs every reconcile call needs. It is
// built once per run and passed explicitly; nothing here is ambient.
type Context struct {
	Tree            tree.Tree
	Roots           map[string]workspace.ProjectNode
	DefaultManifest string
	Variants        []string
}

// Reconcile merges the manifest's preserved local references with a
// freshly computed cross-project list and reports whether the reference
// set changed. Local entries survive verbatim in their original
// relative order; cross-project entries are discarded unconditionally
// and regenerated from deps, each missing entry prepended in iteration
// order (best-effort dependency-first order for sequential consumers,
// not a strict topological sort). The document is mutated only when
// the set changed; an order-only difference leaves it untouched.
func Reconcile(ctx Context, doc *manifest.Document, manifestPath string, owning workspace.ProjectNode, deps []workspace.ProjectNode, variant string) bool {
	dir := path.Dir(manifestPath)
	original := doc.References()

	originalSet := make(map[string]bool, len(original))
	for _, ref := range original {
		originalSet[manifest.Normalize(ref.Path, ctx.DefaultManifest)] = true
	}

	refs := make([]manifest.ReferenceEntry, 0, len(original)+len(deps))
	finalSet := make(map[string]bool, len(original)+len(deps))
	for _, ref := range original {
		if Classify(ref.Path, owning.Root, ctx.Roots) != Local {
			continue
		}
		norm := manifest.Normalize(ref.Path, ctx.DefaultManifest)
		if finalSet[norm] {
			// normalized duplicates collapse to the first occurrence
			continue
		}
		finalSet[norm] = true
		refs = append(refs, ref)
	}

	for _, dep := range deps {
		target := ResolveTarget(ctx.Tree, dep, variant, ctx.Variants)
		rel := relPath(dir, target)
		norm := manifest.Normalize(rel, ctx.DefaultManifest)
		if finalSet[norm] {
			continue
		}
		finalSet[norm] = true
		entry := manifest.ReferenceEntry{Path: manifest.FormatRefPath(rel)}
		refs = append([]manifest.ReferenceEntry{entry}, refs...)
	}

	changed := len(refs) != len(original) || !sameSet(originalSet, finalSet)
	if changed {
		doc.SetReferences(refs)
	}
	return changed
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
