package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/refwork/refctl/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileEmpty(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.WorkspaceRoot != "." {
		t.Fatalf("unexpected workspace_root: %q", cfg.WorkspaceRoot)
	}
	if cfg.GraphFile != "graph.json" {
		t.Fatalf("unexpected graph_file: %q", cfg.GraphFile)
	}
	if cfg.DefaultManifest != "tsconfig.json" {
		t.Fatalf("unexpected default_manifest: %q", cfg.DefaultManifest)
	}
	if !cfg.Transitive {
		t.Fatalf("expected transitive enabled by default")
	}
	if cfg.Verbose {
		t.Fatalf("expected verbose disabled by default")
	}
	if !cfg.HasCapability(CapabilityReferenceSync) {
		t.Fatalf("expected reference-sync registered by default")
	}
	if len(cfg.Variants) != 6 || cfg.Variants[0] != "tsconfig.app.json" {
		t.Fatalf("unexpected variants: %+v", cfg.Variants)
	}
	if len(cfg.Formatter) != 0 {
		t.Fatalf("expected no formatter by default, got %+v", cfg.Formatter)
	}
}

func TestLoadDefinedKeysOverride(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load(writeConfig(t, `
workspace_root = "repo"
graph_file = ".refctl/graph.json"
transitive = false
verbose = true
variants = ["tsconfig.build.json", " tsconfig.esm.json "]
formatter = ["prettier", "--write"]
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.WorkspaceRoot != "repo" {
		t.Fatalf("unexpected workspace_root: %q", cfg.WorkspaceRoot)
	}
	if cfg.GraphFile != ".refctl/graph.json" {
		t.Fatalf("unexpected graph_file: %q", cfg.GraphFile)
	}
	if cfg.Transitive {
		t.Fatalf("expected transitive disabled")
	}
	if !cfg.Verbose {
		t.Fatalf("expected verbose enabled")
	}
	if len(cfg.Variants) != 2 || cfg.Variants[1] != "tsconfig.esm.json" {
		t.Fatalf("unexpected variants: %+v", cfg.Variants)
	}
	if len(cfg.Formatter) != 2 || cfg.Formatter[0] != "prettier" {
		t.Fatalf("unexpected formatter: %+v", cfg.Formatter)
	}
	// keys absent from the file keep defaults
	if cfg.DefaultManifest != "tsconfig.json" {
		t.Fatalf("unexpected default_manifest: %q", cfg.DefaultManifest)
	}
	if !cfg.HasCapability(CapabilityReferenceSync) {
		t.Fatalf("expected default capabilities untouched")
	}
}

func TestLoadUnregisteredCapabilities(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load(writeConfig(t, `capabilities = ["module-boundaries"]`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HasCapability(CapabilityReferenceSync) {
		t.Fatalf("expected reference-sync absent when capabilities overridden")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	testlog.Start(t)
	tests := []struct {
		name string
		body string
	}{
		{name: "blank default manifest", body: `default_manifest = "  "`},
		{name: "variant duplicates default", body: `variants = ["tsconfig.json"]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
