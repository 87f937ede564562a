package chunker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSemanticRespectsMaxSize(t *testing.T) {
	text := "Cats are great pets. Cats are independent animals. " +
		"Finance reports show quarterly growth. The budget increased this year. " +
		"Cats also sleep most of the day."
	opts := DefaultChunkingOptions()
	opts.MaxChunkSize = 60
	opts.MinChunkSize = 1

	candidates, err := chunkSemantic(context.Background(), text, opts, nil)

	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		assert.LessOrEqual(t, c.StartChar, c.EndChar)
	}
}

func TestChunkSemanticEmptyText(t *testing.T) {
	candidates, err := chunkSemantic(context.Background(), "", DefaultChunkingOptions(), nil)

	require.NoError(t, err)
	assert.Empty(t, candidates)
}
