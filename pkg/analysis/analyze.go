package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/idiomlint/pkg/config"
	"github.com/yaklabco/idiomlint/pkg/lint"
	"github.com/yaklabco/idiomlint/pkg/runner"
)

// ReportVersion is the version of the JSON report layout.
const ReportVersion = "1.0.0"

// DisplayPath returns the path to show for an outcome: the source file the
// model describes, or the model itself when that is unknown. It is relative
// to workDir when possible.
func DisplayPath(outcome runner.FileOutcome, workDir string) string {
	path := outcome.Path
	if outcome.Result != nil && outcome.Result.Path != "" {
		path = outcome.Result.Path
	}
	return relativeTo(workDir, path)
}

func relativeTo(workDir, path string) string {
	if workDir == "" || path == "" {
		return path
	}
	if rel, err := filepath.Rel(workDir, path); err == nil {
		return rel
	}
	return path
}

// tally accumulates the diagnostics of one rule or one file. related holds
// the files a rule fired in, or the rules that fired in a file.
type tally struct {
	issues, errors, warnings int
	fixable                  bool
	related                  map[string]struct{}
}

func (t *tally) add(diag *lint.Diagnostic, related string) {
	t.issues++
	switch diag.Level {
	case config.LevelDeny:
		t.errors++
	case config.LevelWarn:
		t.warnings++
	}
	t.fixable = t.fixable || diag.HasFix()
	if t.related == nil {
		t.related = make(map[string]struct{})
	}
	t.related[related] = struct{}{}
}

func (t *tally) relatedKeys() []string {
	return slices.Sorted(maps.Keys(t.related))
}

// bucket returns the tally for key, creating it on first use.
func bucket(m map[string]*tally, key string) *tally {
	t, ok := m[key]
	if !ok {
		t = &tally{}
		m[key] = t
	}
	return t
}

// Analyze computes totals and the views selected by opts.Views in a single
// pass over result. Totals are always filled in.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{Version: ReportVersion, Timestamp: time.Now()}
	if result == nil {
		return report
	}

	byRule := make(map[string]*tally)
	byFile := make(map[string]*tally)
	ruleInfo := make(map[string]*lint.Diagnostic)
	totals := &report.Totals

	for _, file := range result.Files {
		totals.Files++
		if file.Error != nil {
			totals.FilesErrored++
			report.Errors = append(report.Errors, FileError{
				Path:    relativeTo(opts.WorkingDir, file.Path),
				Message: file.Error.Error(),
			})
			continue
		}
		res := file.Result
		if res == nil || res.FileResult == nil {
			continue
		}

		totals.Suppressed += res.Suppressed
		totals.Fixed += res.SuggestionsApplied
		if res.Written {
			totals.FilesModified++
		}
		if len(res.Diagnostics) == 0 {
			continue
		}
		totals.FilesWithIssues++

		path := DisplayPath(file, opts.WorkingDir)
		model := relativeTo(opts.WorkingDir, file.Path)
		for i := range res.Diagnostics {
			diag := &res.Diagnostics[i]

			totals.Issues++
			switch diag.Level {
			case config.LevelDeny:
				totals.Errors++
			case config.LevelWarn:
				totals.Warnings++
			}
			if diag.HasFix() {
				totals.Fixable++
			}

			bucket(byFile, path).add(diag, diag.RuleID)
			bucket(byRule, diag.RuleID).add(diag, path)
			if _, ok := ruleInfo[diag.RuleID]; !ok {
				ruleInfo[diag.RuleID] = diag
			}
			if opts.Views.Has(ViewDiagnostics) {
				report.Diagnostics = append(report.Diagnostics, newEntry(path, model, diag))
			}
		}
	}

	if opts.Views.Has(ViewByRule) {
		for id, t := range byRule {
			info := ruleInfo[id]
			report.ByRule = append(report.ByRule, RuleAnalysis{
				RuleID:   id,
				RuleName: info.RuleName,
				Group:    info.Group,
				Issues:   t.issues,
				Errors:   t.errors,
				Warnings: t.warnings,
				Fixable:  t.fixable,
				Files:    t.relatedKeys(),
			})
		}
		slices.SortFunc(report.ByRule, func(a, b RuleAnalysis) int {
			return opts.compare(a.RuleID, b.RuleID, counts{a.Issues, a.Errors, a.Warnings}, counts{b.Issues, b.Errors, b.Warnings})
		})
	}
	if opts.Views.Has(ViewByFile) {
		for path, t := range byFile {
			report.ByFile = append(report.ByFile, FileAnalysis{
				Path:     path,
				Issues:   t.issues,
				Errors:   t.errors,
				Warnings: t.warnings,
				Rules:    t.relatedKeys(),
			})
		}
		slices.SortFunc(report.ByFile, func(a, b FileAnalysis) int {
			return opts.compare(a.Path, b.Path, counts{a.Issues, a.Errors, a.Warnings}, counts{b.Issues, b.Errors, b.Warnings})
		})
	}

	return report
}

func newEntry(path, model string, diag *lint.Diagnostic) DiagnosticEntry {
	entry := DiagnosticEntry{
		FilePath:    path,
		ModelPath:   model,
		RuleID:      diag.RuleID,
		RuleName:    diag.RuleName,
		Group:       diag.Group,
		Level:       string(diag.Level),
		Origin:      diag.Origin.Explain(diag.RuleName, diag.Level),
		Message:     diag.Message,
		Note:        diag.Note,
		StartLine:   diag.Span.StartLine,
		StartColumn: diag.Span.StartColumn,
		EndLine:     diag.Span.EndLine,
		EndColumn:   diag.Span.EndColumn,
		Fixable:     diag.HasFix(),
	}
	if !entry.Fixable {
		return entry
	}

	sugg := diag.Suggestion
	entry.Suggestion = &SuggestionEntry{
		Message:       sugg.Message,
		Applicability: string(sugg.Applicability),
		Replacements:  make([]ReplacementEntry, len(sugg.Replacements)),
	}
	for i, rep := range sugg.Replacements {
		entry.Suggestion.Replacements[i] = ReplacementEntry{
			StartLine:   rep.Span.StartLine,
			StartColumn: rep.Span.StartColumn,
			EndLine:     rep.Span.EndLine,
			EndColumn:   rep.Span.EndColumn,
			Text:        rep.Text,
		}
	}
	return entry
}

type counts struct {
	issues, errors, warnings int
}

// compare orders two grouped rows by opts.SortBy. SortByLevel ranks errors,
// then warnings, then issues, always most first; SortByName uses the key
// alone. Ties fall back to the key so the order is stable across runs.
func (opts Options) compare(aKey, bKey string, a, b counts) int {
	var c int
	switch opts.SortBy {
	case SortByName:
	case SortByLevel:
		c = cmp.Or(
			cmp.Compare(b.errors, a.errors),
			cmp.Compare(b.warnings, a.warnings),
			cmp.Compare(b.issues, a.issues))
	default:
		c = cmp.Compare(a.issues, b.issues)
		if opts.SortDesc {
			c = -c
		}
	}
	return cmp.Or(c, cmp.Compare(aKey, bKey))
}
