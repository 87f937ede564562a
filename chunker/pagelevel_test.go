package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborline/chunkforge/schema"
)

func TestChunkPageLevelOnePerPage(t *testing.T) {
	text := "page one text" + "page two text" + "page three text"
	offsets := map[int]int{
		1: 0,
		2: len("page one text"),
		3: len("page one text") + len("page two text"),
	}
	raw := schema.NewRawContent(schema.FileInfo{}, text, map[string]any{schema.HintPageOffsets: offsets}, nil, false)
	opts := DefaultChunkingOptions()

	candidates, err := chunkPageLevel(text, raw, opts)

	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.Equal(t, "page one text", candidates[0].Content)
	assert.Equal(t, "page two text", candidates[1].Content)
	assert.Equal(t, "page three text", candidates[2].Content)
}

func TestChunkPageLevelNoOffsetsFallsBackToParagraph(t *testing.T) {
	text := "Paragraph one.\n\nParagraph two.\n"
	raw := schema.NewRawContent(schema.FileInfo{}, text, nil, nil, false)

	candidates, err := chunkPageLevel(text, raw, DefaultChunkingOptions())

	require.NoError(t, err)
	assert.NotEmpty(t, candidates)
}

func TestChunkPageLevelSplitsLongPage(t *testing.T) {
	var long string
	for i := 0; i < 20; i++ {
		long += "A reasonably long paragraph of page content goes here.\n\n"
	}
	offsets := map[int]int{1: 0}
	raw := schema.NewRawContent(schema.FileInfo{}, long, map[string]any{schema.HintPageOffsets: offsets}, nil, false)
	opts := DefaultChunkingOptions()
	opts.MaxChunkSize = 100

	candidates, err := chunkPageLevel(long, raw, opts)

	require.NoError(t, err)
	assert.Greater(t, len(candidates), 1)
}
