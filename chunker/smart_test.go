package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSmartTrailingFragmentStaysWithinExtensionLimit(t *testing.T) {
	// A long run of sentences followed by a short unterminated trailing
	// fragment; whatever Smart extends, the last candidate stays within
	// 1.5x max_chunk_size.
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("This is a complete sentence with real content. ")
	}
	b.WriteString("\n\n")
	b.WriteString("Trailing frag")
	text := b.String()

	opts := DefaultChunkingOptions()
	opts.MaxChunkSize = len(text) - 20
	opts.MinChunkSize = 1

	candidates, err := chunkSmart(text, opts)

	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	last := candidates[len(candidates)-1]
	assert.LessOrEqual(t, last.EndChar-last.StartChar, int(float64(opts.MaxChunkSize)*1.5))
}

func TestSmartCompletenessUnfloored(t *testing.T) {
	assert.Less(t, smartCompleteness("short"), 0.7)
	assert.Greater(t, smartCompleteness("This is a complete sentence. So is this one."), 0.0)
}
