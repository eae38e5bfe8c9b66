// Package configloader finds, merges and validates idiomlint configuration.
// Files are searched the XDG way, layered with IDIOMLINT_* variables and
// command-line flags, and a clippy.toml can be converted on first use.
package configloader

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/idiomlint/internal/logging"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// ProjectConfigName is the file init and migrate write.
const ProjectConfigName = ".idiomlint.yml"

const configFileMode = 0o644

// LoadOptions selects which configuration sources Load reads.
type LoadOptions struct {
	WorkingDir   string // project search start; the process directory if empty
	ExplicitPath string // --config

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool
	IgnoreClippy        bool

	// NonInteractive turns the clippy.toml migration prompt into a warning.
	NonInteractive bool

	// Registry resolves rule keys; lint.DefaultRegistry when nil.
	Registry *lint.Registry

	// Prompt carries the migration question. Standard streams when zero.
	Prompt Prompt

	// CLIConfig holds flag values and wins over every other source.
	CLIConfig *config.Config
}

// LoadResult is the merged configuration and where it came from.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths

	// LoadedFrom lists the files read, lowest precedence first.
	LoadedFrom []string

	Warnings           []string
	MigrationPerformed bool
}

// configLayer is one configuration source before merging. path is empty
// for the environment and flags.
type configLayer struct {
	*config.Config
	path string
}

func (l *configLayer) source(section string) string {
	if l.path == "" {
		return section
	}
	return l.path + ": " + section
}

type ruleEntry struct {
	key string
	cfg config.RuleConfig
}

// Load merges, from lowest to highest precedence: defaults, the system,
// user and project files, the --config file, IDIOMLINT_* variables and
// CLIConfig.
//
// Rule keys are normalized to rule names within each layer, so a later
// layer may name by ID a rule an earlier one named by alias. Unknown rules
// or groups fail with an error matching lint.ErrConfigConflict.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)
	registry := cmp.Or(opts.Registry, lint.DefaultRegistry)

	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	result := &LoadResult{}
	discover := func() error {
		paths, err := DiscoverPaths(ctx, workDir)
		if err != nil {
			return fmt.Errorf("discover paths: %w", err)
		}
		paths.Explicit = opts.ExplicitPath
		result.Paths = paths
		return nil
	}
	if err := discover(); err != nil {
		return nil, err
	}

	if !opts.IgnoreClippy && !opts.IgnoreProjectConfig && opts.ExplicitPath == "" {
		migrated, err := offerClippyMigration(ctx, result, opts, registry, workDir)
		if err != nil {
			return nil, err
		}
		if migrated {
			if err := discover(); err != nil {
				return nil, err
			}
		}
	}

	var invalid []error
	add := func(cfg *config.Config, layer *configLayer) *config.Config {
		if err := normalizeRuleKeys(layer, registry); err != nil {
			invalid = append(invalid, err)
		}
		return merge(cfg, layer.Config)
	}

	cfg := config.NewConfig()
	for _, file := range []struct {
		kind, path string
		skip       bool
	}{
		{"system", result.Paths.System, opts.IgnoreSystemConfig},
		{"user", result.Paths.User, opts.IgnoreUserConfig},
		{"project", result.Paths.Project, opts.IgnoreProjectConfig},
		{"explicit", opts.ExplicitPath, false},
	} {
		if file.skip || file.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(file.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", file.kind, err)
		}
		cfg = add(cfg, &configLayer{Config: fileCfg, path: file.path})
		result.LoadedFrom = append(result.LoadedFrom, file.path)
		logger.Debug("loaded config", logging.FieldConfig, file.path, "layer", file.kind)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	if opts.CLIConfig != nil {
		cfg = add(cfg, &configLayer{Config: opts.CLIConfig.Clone()})
	}

	validation := ValidateWith(cfg, registry)
	if err := validation.Err(); err != nil {
		invalid = append(invalid, err)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(invalid...))
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig writes cfg as YAML under a "#" comment header.
func WriteConfig(cfg *config.Config, path, header string) error {
	content, err := cfg.ToYAMLWithHeader(header)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, content, configFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
