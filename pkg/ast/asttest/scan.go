package asttest

import (
	"fmt"
	"strings"

	"github.com/yaklabco/idiomlint/pkg/ast"
)

// walkTop calls fn for every byte of text outside string and char literals,
// passing the bracket depth before that byte. fn returns false to stop.
func walkTop(text string, fn func(i, depth int) bool) {
	depth := 0
	for i := 0; i < len(text); {
		c := text[i]
		if c == '"' || c == '\'' {
			if end := skipQuoted(text, i); end > i+1 {
				i = end
				continue
			}
		}
		if !fn(i, depth) {
			return
		}
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		i++
	}
}

// skipQuoted returns the index after the string or char literal at i.
// A lone quote (a lifetime) returns i+1.
func skipQuoted(text string, i int) int {
	if text[i] == '"' {
		for j := i + 1; j < len(text); j++ {
			switch text[j] {
			case '\\':
				j++
			case '"':
				return j + 1
			}
		}
		return len(text)
	}

	switch {
	case i+1 < len(text) && text[i+1] == '\\':
		if end := strings.IndexByte(text[i+2:], '\''); end >= 0 {
			return i + 2 + end + 1
		}
	case i+2 < len(text) && text[i+2] == '\'':
		return i + 3
	}
	return i + 1
}

// matchClose returns the index of the bracket closing the one at open.
func matchClose(text string, open int) int {
	res := -1
	walkTop(text[open:], func(i, depth int) bool {
		c := text[open+i]
		if depth == 1 && (c == ')' || c == ']' || c == '}') {
			res = open + i
			return false
		}
		return true
	})
	if res < 0 {
		panic(fmt.Sprintf("asttest: unbalanced bracket at offset %d", open))
	}
	return res
}

// matchAngle returns the index of the '>' closing the '<' at open, or -1.
func matchAngle(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '<':
			depth++
		case '>':
			if i > 0 && text[i-1] == '-' {
				continue
			}
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTop splits src[start:end] on top-level commas into trimmed ranges.
// Empty pieces, such as after a trailing comma, are dropped.
func splitTop(src string, start, end int) [][2]int {
	var out [][2]int
	text := src[start:end]
	last := 0

	add := func(from, to int) {
		s, e := trim(src, start+from, start+to)
		if s < e {
			out = append(out, [2]int{s, e})
		}
	}

	walkTop(text, func(i, depth int) bool {
		if depth == 0 && text[i] == ',' {
			add(last, i)
			last = i + 1
		}
		return true
	})
	add(last, len(text))
	return out
}

// trim narrows [start, end) to exclude surrounding whitespace.
func trim(src string, start, end int) (int, int) {
	for start < end && isSpace(src[start]) {
		start++
	}
	for end > start && isSpace(src[end-1]) {
		end--
	}
	return start, end
}

func skipSpace(src string, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func indexFrom(src, needle string, from int) int {
	idx := strings.Index(src[from:], needle)
	if idx < 0 {
		panic(fmt.Sprintf("asttest: %q not found after offset %d", needle, from))
	}
	return from + idx
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func identEnd(text string, i int) int {
	for i < len(text) && isIdentChar(text[i]) {
		i++
	}
	return i
}

// isPath reports whether text is a plain or qualified path such as
// "Vec::<u8>::new".
func isPath(text string) bool {
	if text == "" || !isIdentStart(text[0]) {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !isIdentChar(c) && c != ':' && c != '<' && c != '>' {
			return false
		}
	}
	return true
}

func literalKind(text string) ast.LitKind {
	switch {
	case text == "true" || text == "false":
		return ast.LitBool
	case text == "()":
		return ast.LitUnit
	case strings.HasPrefix(text, `"`) || strings.HasPrefix(text, `r"`):
		if skipQuoted(text, strings.IndexByte(text, '"')) == len(text) {
			return ast.LitStr
		}
	case strings.HasPrefix(text, "'"):
		if skipQuoted(text, 0) == len(text) {
			return ast.LitChar
		}
	}

	num := strings.TrimPrefix(text, "-")
	if num == "" || num[0] < '0' || num[0] > '9' {
		return ""
	}
	for i := 0; i < len(num); i++ {
		if !isIdentChar(num[i]) && num[i] != '.' {
			return ""
		}
	}
	if strings.Contains(num, ".") {
		return ast.LitFloat
	}
	return ast.LitInt
}

//nolint:gochecknoglobals // Read-only lookup table.
var operators = []string{
	" + ", " - ", " * ", " / ", " % ", " == ", " != ", " < ", " > ",
	" <= ", " >= ", " && ", " || ", " as ", " = ",
}

func hasTopLevelOperator(text string) bool {
	found := false
	walkTop(text, func(i, depth int) bool {
		if depth != 0 || text[i] != ' ' {
			return true
		}
		for _, op := range operators {
			if strings.HasPrefix(text[i:], op) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func cutLast(s, sep string) (string, string, bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+len(sep):], true
}
