package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/refwork/refctl/internal/config"
	"github.com/refwork/refctl/internal/format"
	"github.com/refwork/refctl/internal/refsync"
	"github.com/refwork/refctl/internal/tree"
	"github.com/refwork/refctl/internal/workspace"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile every manifest's references against the dependency graph",
	Long: `Reads the workspace dependency graph snapshot, reconciles the root
manifest and every project manifest (default plus recognized runtime
variants), writes the manifests whose reference set changed, and runs
the configured formatter over them.

Exits zero whether or not changes were made; an out-of-sync workspace
prints a report so callers can mark the run as producing pending
changes.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if verbose {
		cfg.Verbose = true
	}

	runID := uuid.NewString()[:8]
	logger := log.With().Str("run", runID).Logger()

	ws := tree.NewOS(cfg.WorkspaceRoot)
	orchestrator := &refsync.Orchestrator{
		Config:    cfg,
		Tree:      ws,
		Provider:  workspace.FileProvider{Tree: ws, Path: cfg.GraphFile},
		Formatter: newFormatter(cfg),
		Logger:    logger,
	}

	report, err := orchestrator.Run(cmd.Context())
	if err != nil {
		return err
	}
	if report != nil {
		fmt.Fprintln(cmd.OutOrStdout(), report.Message)
		for _, p := range report.Changed {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+p)
		}
	}
	return nil
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFile); err != nil {
			// no workspace file, run on defaults
			return config.Default(), nil
		}
		path = config.DefaultConfigFile
	}
	return config.Load(path)
}

func newFormatter(cfg config.Config) format.Formatter {
	if len(cfg.Formatter) == 0 {
		return format.Noop{}
	}
	return format.Command{WorkspaceRoot: cfg.WorkspaceRoot, Argv: cfg.Formatter}
}
