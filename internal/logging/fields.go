package logging

// Structured log keys. Values are snake_case so JSON log sinks can index
// them.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	FieldConfig = "config"
	FieldPack   = "pack"
	FieldFix    = "fix"
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"

	FieldFilesDiscovered  = "files_discovered"
	FieldFilesWithIssues  = "files_with_issues"
	FieldFilesModified    = "files_modified"
	FieldDiagnostics      = "diagnostics"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldSuppressed       = "suppressed"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	FieldRules       = "rules"
	FieldGroup       = "group"
	FieldLevel       = "level"
	FieldFixable     = "fixable"
	FieldDescription = "description"
)
