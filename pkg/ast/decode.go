package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for a path without a model file suffix.
var ErrUnknownFormat = errors.New("unknown program model format")

// Format is a program model encoding.
type Format string

// Supported encodings.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

//nolint:gochecknoglobals // Read-only lookup table.
var modelSuffixes = []struct {
	suffix string
	format Format
}{
	{".pm.json", FormatJSON},
	{".pm.yaml", FormatYAML},
	{".pm.yml", FormatYAML},
	{".pm.msgpack", FormatMsgpack},
}

// FormatForPath returns the model encoding implied by the file name.
func FormatForPath(path string) (Format, bool) {
	name := strings.ToLower(filepath.Base(path))
	for _, s := range modelSuffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.format, true
		}
	}
	return "", false
}

// IsModelPath reports whether path names a program model file.
func IsModelPath(path string) bool {
	_, ok := FormatForPath(path)
	return ok
}

// Decode parses a model file's bytes using the encoding implied by path.
func Decode(path string, data []byte) (*RawFile, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return DecodeFormat(format, data)
}

// DecodeFormat parses model bytes in the given encoding.
func DecodeFormat(format Format, data []byte) (*RawFile, error) {
	var raw RawFile

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json model: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode yaml model: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode msgpack model: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return &raw, nil
}

// Encode serializes a raw model in the given encoding.
func Encode(format Format, raw *RawFile) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(raw, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json model: %w", err)
		}
		return data, nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(raw); err != nil {
			return nil, fmt.Errorf("encode yaml model: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml model: %w", err)
		}
		return buf.Bytes(), nil
	case FormatMsgpack:
		data, err := msgpack.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("encode msgpack model: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
