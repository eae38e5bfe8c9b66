package runner

import (
	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// FileOutcome is what happened to one discovered model. Exactly one of
// Result and Error is set.
type FileOutcome struct {
	Path   string
	Result *lint.PipelineResult
	Error  error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int // foreign language or changed on disk before the write
	FilesErrored    int
	FilesWithIssues int
	FilesModified   int

	DiagnosticsTotal   int
	DiagnosticsFixable int
	DiagnosticsByLevel map[config.Level]int
	DiagnosticsByRule  map[string]int // keyed by rule ID

	// Suppressed counts findings dropped as duplicates or subsumed by a
	// broader finding.
	Suppressed int
	RuleErrors int

	SuggestionsApplied int
	SuggestionsSkipped int // overlapping fixes left for a later run

	// Strict makes warnings fail the run.
	Strict bool
}

// Result is the outcome of a whole run. Files keeps discovery order.
type Result struct {
	Files  []FileOutcome
	Stats  Stats
	Errors []error // failures not tied to one file
}

func newResult(files int, strict bool) *Result {
	return &Result{
		Files: make([]FileOutcome, 0, files),
		Stats: Stats{
			FilesDiscovered:    files,
			DiagnosticsByLevel: make(map[config.Level]int),
			DiagnosticsByRule:  make(map[string]int),
			Strict:             strict,
		},
	}
}

// HasFailures reports whether the run found a deny diagnostic, or a warning
// under Strict.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	byLevel := r.Stats.DiagnosticsByLevel
	return byLevel[config.LevelDeny] > 0 || (r.Stats.Strict && byLevel[config.LevelWarn] > 0)
}

func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

// HasErrors reports whether some model could not be processed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	st := &r.Stats
	pr := outcome.Result
	switch {
	case outcome.Error != nil:
		st.FilesErrored++
		return
	case pr == nil:
		return
	}

	st.FilesProcessed++
	if pr.Skipped {
		st.FilesSkipped++
	}
	if pr.Written {
		st.FilesModified++
	}
	st.SuggestionsApplied += pr.SuggestionsApplied
	st.SuggestionsSkipped += pr.SuggestionsSkipped

	if pr.FileResult == nil {
		return
	}
	st.Suppressed += pr.Suppressed
	st.RuleErrors += len(pr.RuleErrors)
	st.DiagnosticsFixable += pr.FixableCount()
	st.DiagnosticsTotal += len(pr.Diagnostics)
	if len(pr.Diagnostics) > 0 {
		st.FilesWithIssues++
	}
	for _, diag := range pr.Diagnostics {
		st.DiagnosticsByLevel[diag.Level]++
		st.DiagnosticsByRule[diag.RuleID]++
	}
}
