package errkit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborline/chunkforge/schema"
)

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	cause := errors.New("disk gone")
	inner := New(schema.StageExtract, KindSourceUnreadable, cause, "read failed")
	outer := New(schema.StageExtract, KindParseError, inner, "extraction failed")

	assert.True(t, Is(outer, KindParseError))
	assert.True(t, Is(outer, KindSourceUnreadable))
	assert.False(t, Is(outer, KindCancelled))
	assert.False(t, Is(nil, KindParseError))
}

func TestIsWalksPlainWrappedErrors(t *testing.T) {
	inner := New(schema.StageChunk, KindChunkingError, nil, "non-monotone indices")
	wrapped := fmt.Errorf("stage failed: %w", inner)

	assert.True(t, Is(wrapped, KindChunkingError))
}

func TestErrorsIsFindsCause(t *testing.T) {
	cause := errors.New("boom")
	err := New(schema.StageRefine, KindRefinementError, cause, "refine failed")

	assert.True(t, errors.Is(err, cause))
}

func TestDecompose(t *testing.T) {
	cause := errors.New("timeout")
	err := New(schema.StageEnrich, KindExternalService, cause, "llm call failed")

	stage, kind, message, got := Decompose(err)

	assert.Equal(t, schema.StageEnrich, stage)
	assert.Equal(t, KindExternalService, kind)
	assert.Equal(t, "llm call failed", message)
	assert.Equal(t, cause, got)
}

func TestDecomposePlainError(t *testing.T) {
	plain := errors.New("something else")

	stage, kind, message, got := Decompose(plain)

	assert.Empty(t, stage)
	assert.Equal(t, KindExternalService, kind)
	assert.Equal(t, "something else", message)
	assert.Equal(t, plain, got)
}

func TestFatal(t *testing.T) {
	assert.False(t, Fatal(KindExternalService))
	for _, kind := range []Kind{KindUnsupportedFormat, KindSourceNotFound, KindParseError, KindChunkingError, KindCancelled, KindInvalidState} {
		assert.True(t, Fatal(kind), string(kind))
	}
}

func TestErrorMessageIncludesStageAndKind(t *testing.T) {
	err := New(schema.StageChunk, KindChunkingError, nil, "bad index %d", 3)

	require.Contains(t, err.Error(), "chunk")
	require.Contains(t, err.Error(), "chunking_error")
	require.Contains(t, err.Error(), "bad index 3")
}
