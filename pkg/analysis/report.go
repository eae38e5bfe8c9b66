package analysis

import "time"

// Report is a run's results, analyzed once and shared by the renderers.
// Only the views requested through Options.Views are filled in. Its JSON
// form is the --format json document.
type Report struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Totals    Totals    `json:"summary"`

	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty"`
	ByFile      []FileAnalysis    `json:"byFile,omitempty"`
	ByRule      []RuleAnalysis    `json:"byRule,omitempty"`
	Errors      []FileError       `json:"errors,omitempty"`
}

// DiagnosticEntry is one diagnostic with 1-based, end-exclusive positions.
// FilePath is the Rust source file; ModelPath the model it was read from.
type DiagnosticEntry struct {
	FilePath  string `json:"filePath"`
	ModelPath string `json:"modelPath,omitempty"`

	RuleID   string `json:"ruleId"`
	RuleName string `json:"ruleName"`
	Group    string `json:"group"`
	Level    string `json:"level"`
	Origin   string `json:"origin"`

	Message string `json:"message"`
	Note    string `json:"note,omitempty"`

	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`

	Fixable    bool             `json:"fixable"`
	Suggestion *SuggestionEntry `json:"suggestion,omitempty"`
}

type SuggestionEntry struct {
	Message       string             `json:"message"`
	Applicability string             `json:"applicability"`
	Replacements  []ReplacementEntry `json:"replacements"`
}

type ReplacementEntry struct {
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Text        string `json:"text"`
}

// FileError is a model that could not be loaded, linted or written.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Totals counts over the whole run. Errors and Warnings count diagnostics
// at deny and warn level.
type Totals struct {
	Files           int `json:"modelsChecked"`
	FilesErrored    int `json:"modelsFailed"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesModified   int `json:"filesModified"`

	Issues     int `json:"totalIssues"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
	Fixable    int `json:"fixable"`
	Fixed      int `json:"fixed"`
	Suppressed int `json:"suppressed"`
}

func (t Totals) HasIssues() bool { return t.Issues > 0 }

// HasErrors reports whether any diagnostic resolved to deny.
func (t Totals) HasErrors() bool { return t.Errors > 0 }

// FileAnalysis is the by-file view row. Rules lists the rule IDs that fired.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Rules    []string `json:"rules,omitempty"`
}

// RuleAnalysis is the by-rule view row. Files lists where the rule fired.
type RuleAnalysis struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Group    string   `json:"group"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Fixable  bool     `json:"fixable"`
	Files    []string `json:"files,omitempty"`
}
