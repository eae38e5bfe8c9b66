package reporter

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/idiomlint/pkg/analysis"
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

	toolName = "idiomlint"
	toolURI  = "https://github.com/yaklabco/idiomlint"
)

// SARIFOutput is a SARIF 2.1.0 log with a single run. Only the properties
// idiomlint fills are modeled.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

type SARIFRun struct {
	Tool struct {
		Driver SARIFDriver `json:"driver"`
	} `json:"tool"`
	Results []SARIFResult `json:"results"`
}

type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule is a reportingDescriptor.
type SARIFRule struct {
	ID               string    `json:"id"`
	Name             string    `json:"name,omitempty"`
	ShortDescription sarifText `json:"shortDescription"`
	DefaultConfig    struct {
		Level string `json:"level"`
	} `json:"defaultConfiguration"`
	Properties map[string]any `json:"properties,omitempty"`
}

type SARIFResult struct {
	RuleID     string          `json:"ruleId"`
	RuleIndex  int             `json:"ruleIndex"`
	Level      string          `json:"level"`
	Message    sarifText       `json:"message"`
	Locations  []SARIFLocation `json:"locations"`
	Fixes      []SARIFFix      `json:"fixes,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type SARIFLocation struct {
	PhysicalLocation struct {
		ArtifactLocation sarifArtifact `json:"artifactLocation"`
		Region           SARIFRegion   `json:"region"`
	} `json:"physicalLocation"`
}

// SARIFRegion uses 1-based lines and columns.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

type SARIFFix struct {
	Description     sarifText     `json:"description"`
	ArtifactChanges []sarifChange `json:"artifactChanges"`
}

type sarifChange struct {
	ArtifactLocation sarifArtifact      `json:"artifactLocation"`
	Replacements     []SARIFReplacement `json:"replacements"`
}

type SARIFReplacement struct {
	DeletedRegion   SARIFRegion `json:"deletedRegion"`
	InsertedContent *sarifText  `json:"insertedContent,omitempty"`
}

// SARIFRenderer writes a report as SARIF 2.1.0. Rule descriptors come from
// the rule registry when the rule is registered there.
type SARIFRenderer struct {
	opts     Options
	registry *lint.Registry
}

// NewSARIFRenderer creates a SARIF renderer over lint.DefaultRegistry.
func NewSARIFRenderer(opts Options) *SARIFRenderer {
	return &SARIFRenderer{opts: opts, registry: lint.DefaultRegistry}
}

// Render implements Renderer.
func (r *SARIFRenderer) Render(_ context.Context, report *analysis.Report) error {
	enc := json.NewEncoder(r.opts.Writer)
	if !r.opts.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r.build(report)); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

func (r *SARIFRenderer) build(report *analysis.Report) *SARIFOutput {
	var run SARIFRun
	run.Tool.Driver = SARIFDriver{
		Name:           toolName,
		Version:        cmp.Or(r.opts.ToolVersion, "dev"),
		InformationURI: toolURI,
		Rules:          []SARIFRule{},
	}
	run.Results = make([]SARIFResult, 0, len(report.Diagnostics))

	index := make(map[string]int)
	for _, entry := range report.Diagnostics {
		i, ok := index[entry.RuleID]
		if !ok {
			i = len(run.Tool.Driver.Rules)
			index[entry.RuleID] = i
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, r.descriptor(entry))
		}
		result := sarifResult(entry)
		result.RuleIndex = i
		run.Results = append(run.Results, result)
	}

	return &SARIFOutput{Schema: sarifSchema, Version: sarifVersion, Runs: []SARIFRun{run}}
}

func (r *SARIFRenderer) descriptor(entry analysis.DiagnosticEntry) SARIFRule {
	rule := SARIFRule{
		ID:               entry.RuleID,
		Name:             entry.RuleName,
		ShortDescription: sarifText{Text: entry.Message},
		Properties:       map[string]any{"group": entry.Group},
	}
	rule.DefaultConfig.Level = sarifLevel(config.Level(entry.Level))
	if registered, ok := r.registry.GetByID(entry.RuleID); ok {
		rule.ShortDescription.Text = registered.Description()
		rule.DefaultConfig.Level = sarifLevel(registered.DefaultLevel())
		rule.Properties["fixable"] = registered.CanFix()
	}
	return rule
}

func sarifResult(entry analysis.DiagnosticEntry) SARIFResult {
	artifact := sarifArtifact{URI: filepath.ToSlash(entry.FilePath)}

	var loc SARIFLocation
	loc.PhysicalLocation.ArtifactLocation = artifact
	loc.PhysicalLocation.Region = SARIFRegion{
		StartLine:   entry.StartLine,
		StartColumn: entry.StartColumn,
		EndLine:     entry.EndLine,
		EndColumn:   entry.EndColumn,
	}

	result := SARIFResult{
		RuleID:     entry.RuleID,
		Level:      sarifLevel(config.Level(entry.Level)),
		Message:    sarifText{Text: entry.Message},
		Locations:  []SARIFLocation{loc},
		Properties: map[string]any{"origin": entry.Origin},
	}
	if entry.Note != "" {
		result.Properties["note"] = entry.Note
	}

	sugg := entry.Suggestion
	if sugg == nil {
		return result
	}
	change := sarifChange{ArtifactLocation: artifact}
	for _, rep := range sugg.Replacements {
		change.Replacements = append(change.Replacements, SARIFReplacement{
			DeletedRegion: SARIFRegion{
				StartLine:   rep.StartLine,
				StartColumn: rep.StartColumn,
				EndLine:     rep.EndLine,
				EndColumn:   rep.EndColumn,
			},
			InsertedContent: &sarifText{Text: rep.Text},
		})
	}
	result.Fixes = []SARIFFix{{
		Description:     sarifText{Text: sugg.Message + " (" + sugg.Applicability + ")"},
		ArtifactChanges: []sarifChange{change},
	}}
	return result
}

// sarifLevel maps deny to "error", allow to "none" and anything else to
// "warning".
func sarifLevel(level config.Level) string {
	switch level {
	case config.LevelDeny:
		return "error"
	case config.LevelAllow:
		return "none"
	default:
		return "warning"
	}
}
