package span_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/idiomlint/pkg/span"
)

func mk(startLine, startCol, endLine, endCol int) span.Span {
	return span.Span{File: "a.rs", StartLine: startLine, StartColumn: startCol, EndLine: endLine, EndColumn: endCol}
}

func TestNew(t *testing.T) {
	t.Parallel()

	got, err := span.New("a.rs", 2, 5, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, mk(2, 5, 4, 1), got)

	_, err = span.New("a.rs", 3, 1, 2, 9)
	require.ErrorIs(t, err, span.ErrInverted)

	_, err = span.New("a.rs", 3, 9, 3, 2)
	require.ErrorIs(t, err, span.ErrInverted)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b span.Span
		want span.Span
	}{
		{"disjoint same line", mk(1, 5, 1, 10), mk(1, 12, 1, 20), mk(1, 5, 1, 20)},
		{"reversed argument order", mk(1, 12, 1, 20), mk(1, 5, 1, 10), mk(1, 5, 1, 20)},
		{"multi-line chain", mk(3, 10, 5, 4), mk(6, 5, 6, 12), mk(3, 10, 6, 12)},
		{"nested", mk(1, 1, 9, 1), mk(3, 3, 4, 4), mk(1, 1, 9, 1)},
		{"identical", mk(2, 2, 2, 8), mk(2, 2, 2, 8), mk(2, 2, 2, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := span.Merge(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, span.Contains(got, tt.a))
			assert.True(t, span.Contains(got, tt.b))
			assert.True(t, got.IsValid())
		})
	}
}

func TestMerge_DifferentFiles(t *testing.T) {
	t.Parallel()

	other := mk(1, 1, 1, 2)
	other.File = "b.rs"

	_, err := span.Merge(mk(1, 1, 1, 2), other)
	require.ErrorIs(t, err, span.ErrFileMismatch)

	assert.Panics(t, func() { span.MustMerge(mk(1, 1, 1, 2), other) })
}

func TestContains(t *testing.T) {
	t.Parallel()

	outer := mk(2, 5, 4, 10)

	assert.True(t, span.Contains(outer, outer))
	assert.True(t, span.Contains(outer, mk(3, 1, 3, 80)))
	assert.True(t, span.Contains(outer, mk(2, 5, 2, 6)))
	assert.False(t, span.Contains(outer, mk(2, 4, 2, 6)))
	assert.False(t, span.Contains(outer, mk(4, 9, 4, 11)))
	assert.False(t, span.Contains(mk(3, 1, 3, 80), outer))

	elsewhere := mk(3, 1, 3, 2)
	elsewhere.File = "b.rs"
	assert.False(t, span.Contains(outer, elsewhere))
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	assert.True(t, span.Overlaps(mk(1, 1, 1, 10), mk(1, 9, 1, 12)))
	assert.False(t, span.Overlaps(mk(1, 1, 1, 10), mk(1, 10, 1, 12)))
	assert.False(t, span.Overlaps(mk(1, 1, 1, 10), mk(2, 1, 2, 2)))
}

func TestCompare(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, span.Compare(mk(1, 1, 1, 2), mk(1, 1, 1, 2)))
	assert.Negative(t, span.Compare(mk(1, 1, 1, 2), mk(1, 2, 1, 3)))
	assert.Negative(t, span.Compare(mk(1, 9, 1, 10), mk(2, 1, 2, 3)))
	assert.Positive(t, span.Compare(mk(1, 1, 3, 2), mk(1, 1, 2, 9)))

	b := mk(1, 1, 1, 2)
	b.File = "b.rs"
	assert.Negative(t, span.Compare(mk(9, 9, 9, 9), b))
}

func TestString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a.rs:2:5-4:1", mk(2, 5, 4, 1).String())
}
