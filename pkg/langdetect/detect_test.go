package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/idiomlint/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"shebang bash", "#!/bin/bash\necho hello", "bash"},
		{"shebang sh", "#!/bin/sh\necho hello", "bash"},
		{"go code", "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}", "go"},
		{"python code", "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", "python"},
		{"rust main", "fn main() {\n    println!(\"Hello, world!\");\n}", "rust"},
		{"rust impl", "struct Foo;\n\nimpl Foo {\n    pub fn new() -> Self { Foo }\n}\n", "rust"},
		{"plain text fallback", "just some text without any code patterns", "text"},
		{"empty content fallback", "", "text"},
		{"whitespace only", " \n\t\n", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestDetect_ShebangTakesPrecedence(t *testing.T) {
	t.Parallel()

	// Content looks like Rust but has a bash shebang.
	content := []byte("#!/bin/bash\nfn main() {}")
	assert.Equal(t, "bash", langdetect.Detect(content))
}

func TestDetectFile_UsesExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "go", langdetect.DetectFile("cmd/main.go", []byte("x")))
	assert.Equal(t, "rust", langdetect.DetectFile("", []byte("impl Foo {}")))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Rust":   "rust",
		"rs":     "rust",
		"Shell":  "bash",
		"Golang": "go",
		" Go ":   "go",
		"py":     "python",
		"Kotlin": "kotlin",
	}
	for in, want := range tests {
		assert.Equal(t, want, langdetect.Normalize(in), in)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		declared string
		path     string
		content  string
		wantLang string
		wantOK   bool
	}{
		{"declared rust", "Rust", "src/lib.rs", "", "rust", true},
		{"declared go", "Go", "main.go", "fn main() {}", "go", false},
		{"detected rust", "", "", "fn main() {\n    let mut x = 1;\n}", "rust", true},
		{"detected go", "", "", "package main\n", "go", false},
		{"unclassified is accepted", "", "", "x", "text", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lang, ok := langdetect.Verify(tt.declared, tt.path, []byte(tt.content), "rust")
			assert.Equal(t, tt.wantLang, lang)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
