package refsync

import (
	"context"
	"fmt"
	"path"

	"github.com/rs/zerolog"

	"github.com/refwork/refctl/internal/config"
	"github.com/refwork/refctl/internal/format"
	"github.com/refwork/refctl/internal/manifest"
	"github.com/refwork/refctl/internal/tree"
	"github.com/refwork/refctl/internal/workspace"
)

// OutOfSyncMessage is the report message returned when any manifest was
// corrected.
const OutOfSyncMessage = "project references were out of sync with the workspace dependency graph and have been updated; review and commit the changes"

// Report is produced only when a run changed something. A nil report
// means the workspace was already fully in sync.
type Report struct {
	Message string
	Changed []string
}

// Orchestrator drives one reference-sync pass: load the graph, check
// preconditions, reconcile the root manifest and every project manifest
// variant, then hand changed files to the formatter.
type Orchestrator struct {
	Config    config.Config
	Tree      tree.Tree
	Provider  workspace.Provider
	Formatter format.Formatter
	Logger    zerolog.Logger
}

// Run executes one synchronous pass. All state is local to the call;
// repeated runs over unchanged inputs converge to a no-op.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	if !o.Config.HasCapability(config.CapabilityReferenceSync) {
		return nil, ErrCapabilityNotRegistered
	}
	rootManifest := o.Config.DefaultManifest
	if !o.Tree.Exists(rootManifest) {
		return nil, fmt.Errorf("%w: %s", ErrRootManifestMissing, rootManifest)
	}

	graph, err := o.Provider.Load(ctx)
	if err != nil {
		return nil, err
	}

	rctx := Context{
		Tree:            o.Tree,
		Roots:           graph.Roots(),
		DefaultManifest: o.Config.DefaultManifest,
		Variants:        o.Config.Variants,
	}
	projects := graph.Projects()
	var changed []string

	rootDoc, err := manifest.Load(o.Tree, rootManifest)
	if err != nil {
		return nil, err
	}
	if ReconcileRoot(rctx, rootDoc, projects) {
		if err := manifest.Save(o.Tree, rootManifest, rootDoc); err != nil {
			return nil, err
		}
		changed = append(changed, rootManifest)
	}

	computer := NewComputer(graph, o.Config.Transitive)
	for _, project := range projects {
		if project.IsRoot() {
			continue
		}
		defaultPath := path.Join(project.Root, o.Config.DefaultManifest)
		if !o.Tree.Exists(defaultPath) {
			o.skip().Str("project", project.Name).Msg("no manifest, skipping project")
			continue
		}

		deps := make([]workspace.ProjectNode, 0)
		for _, dep := range computer.Closure(project.Name) {
			if !o.Tree.Exists(path.Join(dep.Root, o.Config.DefaultManifest)) {
				o.skip().Str("project", project.Name).Str("dependency", dep.Name).Msg("dependency has no manifest, skipping reference")
				continue
			}
			deps = append(deps, dep)
		}

		wrote, err := o.reconcileOne(rctx, defaultPath, project, deps, "")
		if err != nil {
			return nil, err
		}
		changed = append(changed, wrote...)

		for _, variant := range o.Config.Variants {
			variantPath := path.Join(project.Root, variant)
			if !o.Tree.Exists(variantPath) {
				continue
			}
			wrote, err := o.reconcileOne(rctx, variantPath, project, deps, variant)
			if err != nil {
				return nil, err
			}
			changed = append(changed, wrote...)
		}
	}

	if len(changed) == 0 {
		o.Logger.Info().Msg("project references in sync")
		return nil, nil
	}

	o.Logger.Info().Int("manifests", len(changed)).Msg("project references updated")
	if o.Formatter != nil {
		if err := o.Formatter.Format(ctx, changed); err != nil {
			return nil, fmt.Errorf("format updated manifests: %w", err)
		}
	}
	return &Report{Message: OutOfSyncMessage, Changed: changed}, nil
}

func (o *Orchestrator) reconcileOne(rctx Context, manifestPath string, project workspace.ProjectNode, deps []workspace.ProjectNode, variant string) ([]string, error) {
	doc, err := manifest.Load(o.Tree, manifestPath)
	if err != nil {
		return nil, err
	}
	if !Reconcile(rctx, doc, manifestPath, project, deps, variant) {
		return nil, nil
	}
	if err := manifest.Save(o.Tree, manifestPath, doc); err != nil {
		return nil, err
	}
	return []string{manifestPath}, nil
}

// skip returns the event used for soft-skip warnings: surfaced at warn
// level under the verbosity toggle, suppressed otherwise.
func (o *Orchestrator) skip() *zerolog.Event {
	if o.Config.Verbose {
		return o.Logger.Warn()
	}
	return o.Logger.Debug()
}
