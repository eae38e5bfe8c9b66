// Package langdetect identifies the language of a program model's source.
// It uses go-enry to detect languages from file names, shebangs, and
// content, so models emitted for other languages can be skipped.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language tags returned by this package.
const (
	LangRust   = "rust"
	LangGo     = "go"
	LangPython = "python"
	LangBash   = "bash"
	LangText   = "text"
)

// Detect returns the detected language for source content.
// Returns "text" if detection fails or confidence is low.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return LangText
	}

	// Strategy 1: Check shebang first (most reliable).
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return Normalize(lang)
	}

	// Strategy 2: Check for language-specific patterns before using classifier.
	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	// Strategy 3: Use classifier with languages front ends emit models for.
	candidates := []string{
		"Rust", "Go", "C", "C++", "Python", "JavaScript", "TypeScript",
		"Java", "Kotlin", "Swift", "Shell",
	}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return Normalize(lang)
	}

	return LangText
}

// DetectFile detects the language of a source file, trusting an
// unambiguous file extension before looking at the content.
func DetectFile(path string, content []byte) string {
	if path != "" {
		if lang, safe := enry.GetLanguageByExtension(path); safe && lang != "" {
			return Normalize(lang)
		}
	}
	return Detect(content)
}

// Verify reports whether a model's source is in language want and returns
// the language it settled on. A language declared by the front end is
// trusted; otherwise the file is detected, and sources that cannot be
// classified are accepted.
func Verify(declared, path string, content []byte, want string) (string, bool) {
	want = Normalize(want)
	if declared != "" {
		lang := Normalize(declared)
		return lang, lang == want
	}

	lang := DetectFile(path, content)
	return lang, lang == want || lang == LangText
}

// Normalize converts go-enry and front-end language names to lower-case tags.
func Normalize(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "shell", "sh":
		return LangBash
	case "rs":
		return LangRust
	case "golang":
		return LangGo
	case "py":
		return LangPython
	default:
		return strings.ToLower(strings.TrimSpace(lang))
	}
}

// detectByPattern checks for patterns that are highly indicative of a language.
func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	contentStr := string(content)

	if lang := detectGo(trimmed); lang != "" {
		return lang
	}
	if lang := detectRust(contentStr); lang != "" {
		return lang
	}
	if lang := detectPython(contentStr); lang != "" {
		return lang
	}
	return ""
}

// detectGo checks for Go language patterns.
func detectGo(trimmed []byte) string {
	if bytes.HasPrefix(trimmed, []byte("package ")) {
		return LangGo
	}
	return ""
}

// detectRust checks for Rust language patterns.
func detectRust(contentStr string) string {
	markers := []string{"fn main()", "println!", "let mut ", "impl ", "pub fn ", "use std::", "-> Self", "&self"}
	for _, m := range markers {
		if strings.Contains(contentStr, m) {
			return LangRust
		}
	}
	return ""
}

// detectPython checks for Python language patterns.
func detectPython(contentStr string) string {
	// def/class definitions with colon.
	if strings.Contains(contentStr, "def ") && strings.Contains(contentStr, "):") {
		return LangPython
	}
	// Python dunder variables.
	if strings.Contains(contentStr, "__name__") || strings.Contains(contentStr, "__main__") {
		return LangPython
	}
	return ""
}
