package lint

import "github.com/yaklabco/idiomlint/pkg/ast"

// ModelDecoder turns the bytes of a model file into a raw program model.
//
// The lint package defines this interface in the consumer package so front
// ends can plug in their own encodings. Implementations must be:
//   - deterministic for a given (path, data) pair,
//   - safe for concurrent use by multiple goroutines,
//   - side-effect free (no I/O, no global state mutation).
type ModelDecoder interface {
	// Decode parses data read from path. path selects the encoding and is
	// used in error messages; it must not be used for I/O.
	Decode(path string, data []byte) (*ast.RawFile, error)
}

// ModelDecoderFunc adapts a function to ModelDecoder.
type ModelDecoderFunc func(path string, data []byte) (*ast.RawFile, error)

// Decode calls f.
func (f ModelDecoderFunc) Decode(path string, data []byte) (*ast.RawFile, error) {
	return f(path, data)
}

// DefaultDecoder reads JSON, YAML, and msgpack models by file suffix.
//
//nolint:gochecknoglobals // stateless default
var DefaultDecoder ModelDecoder = ModelDecoderFunc(ast.Decode)
