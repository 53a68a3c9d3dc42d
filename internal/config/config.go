package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// CapabilityReferenceSync must be registered in the workspace
// configuration before the orchestrator will touch any manifest.
const CapabilityReferenceSync = "reference-sync"

// DefaultConfigFile is the workspace configuration filename refctl
// looks for when no explicit path is given.
const DefaultConfigFile = "refctl.toml"

// Config is the workspace-level configuration threaded through every
// run. It is never read from ambient state; callers pass it explicitly.
type Config struct {
	// WorkspaceRoot is the directory the tree capability is rooted at.
	WorkspaceRoot string

	// GraphFile is the workspace-relative path of the dependency graph
	// snapshot consumed by the file graph provider.
	GraphFile string

	// DefaultManifest is the default composite manifest filename owned
	// by every project root and by the workspace root.
	DefaultManifest string

	// Capabilities lists the sync capabilities registered for this
	// workspace. Reference sync refuses to run unless
	// CapabilityReferenceSync is present.
	Capabilities []string

	// Transitive includes transitive graph dependencies in generated
	// cross-project references. Direct edges only when false.
	Transitive bool

	// Verbose surfaces soft-skip warnings (projects or dependencies
	// without a usable manifest).
	Verbose bool

	// Variants is the ordered list of recognized runtime-variant
	// manifest filenames.
	Variants []string

	// Formatter is the argv of the external formatter invoked over
	// changed files. Empty means no formatting pass.
	Formatter []string
}

type fileConfig struct {
	WorkspaceRoot   string   `toml:"workspace_root"`
	GraphFile       string   `toml:"graph_file"`
	DefaultManifest string   `toml:"default_manifest"`
	Capabilities    []string `toml:"capabilities"`
	Transitive      bool     `toml:"transitive"`
	Verbose         bool     `toml:"verbose"`
	Variants        []string `toml:"variants"`
	Formatter       []string `toml:"formatter"`
}

// Default returns the configuration used when no workspace file
// overrides it.
func Default() Config {
	return Config{
		WorkspaceRoot:   ".",
		GraphFile:       "graph.json",
		DefaultManifest: "tsconfig.json",
		Capabilities:    []string{CapabilityReferenceSync},
		Transitive:      true,
		Verbose:         false,
		Variants: []string{
			"tsconfig.app.json",
			"tsconfig.lib.json",
			"tsconfig.build.json",
			"tsconfig.cjs.json",
			"tsconfig.esm.json",
			"tsconfig.runtime.json",
		},
	}
}

// Load reads the workspace configuration at path on top of the
// defaults. Only keys present in the file override; absent keys keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load workspace config: %w", err)
	}

	if meta.IsDefined("workspace_root") {
		if v := strings.TrimSpace(raw.WorkspaceRoot); v != "" {
			cfg.WorkspaceRoot = v
		}
	}
	if meta.IsDefined("graph_file") {
		if v := strings.TrimSpace(raw.GraphFile); v != "" {
			cfg.GraphFile = v
		}
	}
	if meta.IsDefined("default_manifest") {
		cfg.DefaultManifest = strings.TrimSpace(raw.DefaultManifest)
	}
	if meta.IsDefined("capabilities") {
		cfg.Capabilities = normalizeList(raw.Capabilities)
	}
	if meta.IsDefined("transitive") {
		cfg.Transitive = raw.Transitive
	}
	if meta.IsDefined("verbose") {
		cfg.Verbose = raw.Verbose
	}
	if meta.IsDefined("variants") {
		cfg.Variants = normalizeList(raw.Variants)
	}
	if meta.IsDefined("formatter") {
		cfg.Formatter = normalizeList(raw.Formatter)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces fields every run depends on.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.WorkspaceRoot) == "" {
		return fmt.Errorf("config missing workspace_root")
	}
	if strings.TrimSpace(cfg.GraphFile) == "" {
		return fmt.Errorf("config missing graph_file")
	}
	if strings.TrimSpace(cfg.DefaultManifest) == "" {
		return fmt.Errorf("config missing default_manifest")
	}
	for i, v := range cfg.Variants {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("variants[%d] is blank", i)
		}
		if v == cfg.DefaultManifest {
			return fmt.Errorf("variants[%d] duplicates default_manifest %q", i, v)
		}
	}
	return nil
}

// HasCapability reports whether name is registered for the workspace.
func (c Config) HasCapability(name string) bool {
	for _, cap := range c.Capabilities {
		if cap == name {
			return true
		}
	}
	return false
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		v := strings.TrimSpace(item)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
