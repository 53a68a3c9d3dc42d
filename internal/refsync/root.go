package refsync

import (
	"path"
	"strings"

	"github.com/refwork/refctl/internal/manifest"
	"github.com/refwork/refctl/internal/workspace"
)

// ReconcileRoot reconciles the workspace-root manifest: a
// previously-listed entry survives only while its resolved target
// manifest still exists, then every manifest-owning project not yet
// represented is appended in project iteration order. The root
// pseudo-project never references itself. Reports whether the
// reference set changed.
func ReconcileRoot(ctx Context, doc *manifest.Document, projects []workspace.ProjectNode) bool {
	original := doc.References()

	originalSet := make(map[string]bool, len(original))
	for _, ref := range original {
		originalSet[manifest.Normalize(ref.Path, ctx.DefaultManifest)] = true
	}

	refs := make([]manifest.ReferenceEntry, 0, len(original)+len(projects))
	finalSet := make(map[string]bool, len(original)+len(projects))
	for _, ref := range original {
		if !targetManifestExists(ctx, ref.Path) {
			continue
		}
		norm := manifest.Normalize(ref.Path, ctx.DefaultManifest)
		if finalSet[norm] {
			continue
		}
		finalSet[norm] = true
		refs = append(refs, ref)
	}

	for _, p := range projects {
		if p.IsRoot() {
			continue
		}
		if !ctx.Tree.Exists(path.Join(p.Root, ctx.DefaultManifest)) {
			continue
		}
		norm := manifest.Normalize(p.Root, ctx.DefaultManifest)
		if finalSet[norm] {
			continue
		}
		finalSet[norm] = true
		refs = append(refs, manifest.ReferenceEntry{Path: manifest.FormatRefPath(p.Root)})
	}

	changed := len(refs) != len(original) || !sameSet(originalSet, finalSet)
	if changed {
		doc.SetReferences(refs)
	}
	return changed
}

// targetManifestExists resolves a root-manifest reference to the
// manifest file it names: the file itself for .json entries, the
// directory's default manifest otherwise.
func targetManifestExists(ctx Context, refPath string) bool {
	p := path.Join(".", strings.TrimSpace(refPath))
	if !strings.HasSuffix(path.Base(p), ".json") {
		p = path.Join(p, ctx.DefaultManifest)
	}
	return ctx.Tree.Exists(p)
}
