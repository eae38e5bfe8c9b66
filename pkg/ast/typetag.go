package ast

import "strings"

// TypeTag is a resolved type as rendered by the type checker,
// for example "Option<i32>", "&Vec<String>", or "std::slice::Iter<'_, u8>".
// An empty tag means the type is unknown.
type TypeTag string

// IsUnknown reports whether no type was supplied.
func (t TypeTag) IsUnknown() bool {
	return strings.TrimSpace(string(t)) == ""
}

// IsUnit reports whether the type is the unit type.
func (t TypeTag) IsUnit() bool {
	s := strings.TrimSpace(string(t))
	return s == "()"
}

// IsRef reports whether the type is a reference.
func (t TypeTag) IsRef() bool {
	return strings.HasPrefix(strings.TrimSpace(string(t)), "&")
}

// Deref strips leading references and `mut`.
func (t TypeTag) Deref() TypeTag {
	s := strings.TrimSpace(string(t))
	for strings.HasPrefix(s, "&") {
		s = strings.TrimSpace(s[1:])
		if rest, ok := strings.CutPrefix(s, "'"); ok {
			// Skip a lifetime: &'a T.
			if idx := strings.IndexByte(rest, ' '); idx >= 0 {
				s = strings.TrimSpace(rest[idx:])
			}
		}
		s = strings.TrimSpace(strings.TrimPrefix(s, "mut "))
	}
	return TypeTag(s)
}

// Base returns the last path segment of the dereferenced type without
// generic arguments. "&std::vec::Vec<u8>" has base "Vec".
func (t TypeTag) Base() string {
	s := string(t.Deref())
	s = strings.TrimPrefix(s, "impl ")
	s = strings.TrimPrefix(s, "dyn ")
	if idx := strings.IndexByte(s, '<'); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.LastIndex(s, "::"); idx >= 0 {
		s = s[idx+2:]
	}
	return strings.TrimSpace(s)
}

// GenericArgs returns the top-level generic arguments.
// "Result<Vec<u8>, Error>" yields ["Vec<u8>", "Error"].
func (t TypeTag) GenericArgs() []TypeTag {
	s := string(t.Deref())
	open := strings.IndexByte(s, '<')
	if open < 0 || !strings.HasSuffix(s, ">") {
		return nil
	}
	inner := s[open+1 : len(s)-1]

	var args []TypeTag
	depth, start := 0, 0
	for i, r := range inner {
		switch r {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, TypeTag(strings.TrimSpace(inner[start:i])))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(inner[start:]); last != "" {
		args = append(args, TypeTag(last))
	}
	return args
}

// IsOption reports whether the type is Option<T>.
func (t TypeTag) IsOption() bool {
	return t.Base() == "Option"
}

// IsResult reports whether the type is Result<T, E>.
func (t TypeTag) IsResult() bool {
	return t.Base() == "Result"
}

//nolint:gochecknoglobals // Read-only lookup table.
var iteratorBases = map[string]bool{
	"Iterator": true, "Iter": true, "IterMut": true, "IntoIter": true,
	"Filter": true, "Map": true, "Skip": true, "Take": true, "Chain": true,
	"Enumerate": true, "Rev": true, "Peekable": true, "Chars": true,
	"Bytes": true, "Lines": true, "Split": true, "Zip": true, "Cloned": true,
	"Copied": true, "StepBy": true, "FlatMap": true, "Flatten": true,
	"Range": true, "RangeInclusive": true, "Keys": true, "Values": true,
	"DoubleEndedIterator": true, "ExactSizeIterator": true,
}

// IsIterator reports whether the type implements Iterator as far as the
// engine can tell from its name.
func (t TypeTag) IsIterator() bool {
	return iteratorBases[t.Base()]
}

// IsRandomAccess reports whether the type is an indexable sequence:
// Vec, VecDeque, a slice, or an array.
func (t TypeTag) IsRandomAccess() bool {
	s := string(t.Deref())
	if strings.HasPrefix(s, "[") {
		return true
	}
	switch t.Base() {
	case "Vec", "VecDeque":
		return true
	default:
		return false
	}
}

// IsString reports whether the type is String or str.
func (t TypeTag) IsString() bool {
	switch t.Base() {
	case "String", "str":
		return true
	default:
		return false
	}
}

// Mentions reports whether name appears in the type as a whole identifier.
func (t TypeTag) Mentions(name string) bool {
	if name == "" {
		return false
	}
	s := string(t)
	for idx := 0; ; {
		pos := strings.Index(s[idx:], name)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(name)
		if !isIdentByte(s, start-1) && !isIdentByte(s, end) {
			return true
		}
		idx = end
	}
}

func isIdentByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
