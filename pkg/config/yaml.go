package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// ToYAML encodes the persisted fields of c. CLI-only fields carry a "-" tag
// and never appear.
func (c *Config) ToYAML() ([]byte, error) {
	return c.ToYAMLWithHeader("")
}

// ToYAMLWithHeader encodes c after header, a block of "#" comment lines,
// separated from the document by one blank line.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if header != "" {
		buf.WriteString(strings.TrimRight(header, "\n"))
		buf.WriteString("\n\n")
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML decodes a config file. The Rules and Groups maps are never nil
// on success.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]RuleConfig{}
	}
	if cfg.Groups == nil {
		cfg.Groups = map[string]string{}
	}
	return &cfg, nil
}

// Clone deep-copies c. Values nested inside rule options stay shared.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Groups = maps.Clone(c.Groups)
	clone.Ignore = slices.Clone(c.Ignore)
	clone.LevelFlags = slices.Clone(c.LevelFlags)
	clone.FixRules = slices.Clone(c.FixRules)
	if c.Rules != nil {
		clone.Rules = make(map[string]RuleConfig, len(c.Rules))
		for key, rc := range c.Rules {
			clone.Rules[key] = rc.Clone()
		}
	}
	return &clone
}

// Clone deep-copies the level, auto-fix flag and options map.
func (rc RuleConfig) Clone() RuleConfig {
	out := RuleConfig{Options: maps.Clone(rc.Options)}
	if rc.Level != nil {
		level := *rc.Level
		out.Level = &level
	}
	if rc.AutoFix != nil {
		autoFix := *rc.AutoFix
		out.AutoFix = &autoFix
	}
	return out
}
