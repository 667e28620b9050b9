package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestFormatError(t *testing.T) {
	t.Run("source and line", func(t *testing.T) {
		err := NewFormatError("cat.tsv", 7, "bad column %q", "x")
		assert.Equal(t, `cat.tsv:7: bad column "x"`, err.Error())
		assert.True(t, IsFormatError(err))
		assert.NotNil(t, GetStack(err), "format errors carry a stack trace")
	})

	t.Run("line only", func(t *testing.T) {
		err := NewFormatError("", 3, "boom")
		assert.Equal(t, "line 3: boom", err.Error())
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := Wrap(NewFormatError("hits.tsv", 1, "boom"), "parse hits")
		assert.True(t, IsFormatError(err))

		var fe *FormatError
		require.True(t, As(err, &fe))
		assert.Equal(t, "hits.tsv", fe.Source)
		assert.Equal(t, 1, fe.Line)
	})

	t.Run("plain errors are not format errors", func(t *testing.T) {
		assert.False(t, IsFormatError(New("other")))
		assert.False(t, IsFormatError(nil))
	})
}

func TestAmbiguousLocusError(t *testing.T) {
	err := Wrap(&AmbiguousLocusError{Strain: "S1", Loci: []string{"adk", "gyrB"}}, "resolve")
	assert.True(t, Is(err, ErrAmbiguousLocus))
	assert.False(t, Is(err, ErrFormat))
	assert.Contains(t, err.Error(), "strain S1: several allele types at adk,gyrB")
}
