package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format names an output renderer.
type Format string

// Output formats, in the order help text lists them.
const (
	FormatText    Format = "text"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatSARIF   Format = "sarif"
	FormatDiff    Format = "diff"
	FormatSummary Format = "summary"
)

//nolint:gochecknoglobals // read-only
var formats = []Format{FormatText, FormatTable, FormatJSON, FormatSARIF, FormatDiff, FormatSummary}

// Formats returns every supported format.
func Formats() []Format {
	return slices.Clone(formats)
}

// ParseFormat maps a --format value to a Format. The empty string means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	if f := Format(strings.ToLower(s)); f.IsValid() {
		return f, nil
	}

	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", s, strings.Join(names, ", "))
}

func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is one of Formats.
func (f Format) IsValid() bool {
	return slices.Contains(formats, f)
}
