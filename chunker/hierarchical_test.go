package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkHierarchicalProducesParentAndChild(t *testing.T) {
	text := "# A\nbody a1.\n## A.1\nbody a2.\n"
	sections := buildTestSections(text)
	opts := DefaultChunkingOptions()
	opts.MaxHeadingLevel = 3
	opts.MinChunkSize = 1

	candidates, err := chunkHierarchical(text, sections, opts)

	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, 0, candidates[0].Level)
	assert.Equal(t, -1, candidates[0].ParentIndex)
	assert.Equal(t, 1, candidates[1].Level)
	assert.Equal(t, 0, candidates[1].ParentIndex)
}

func TestChunkHierarchicalSplitsLongSectionIntoChildren(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "This is a reasonably long paragraph about something.\n\n"
	}
	text := "# Big\n" + long
	sections := buildTestSections(text)
	opts := DefaultChunkingOptions()
	opts.MaxChunkSize = 200
	opts.MinChunkSize = 1

	candidates, err := chunkHierarchical(text, sections, opts)

	require.NoError(t, err)
	require.Greater(t, len(candidates), 1)
	assert.Equal(t, -1, candidates[0].ParentIndex)
	for _, c := range candidates[1:] {
		assert.Equal(t, 0, c.ParentIndex)
	}
}

func TestChunkHierarchicalNoSectionsFallsBackToParagraph(t *testing.T) {
	text := "Plain paragraph one.\n\nPlain paragraph two.\n"
	candidates, err := chunkHierarchical(text, nil, DefaultChunkingOptions())

	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		assert.Equal(t, -1, c.ParentIndex)
	}
}

func TestChunkHierarchicalDeepHeadingFoldedIntoParent(t *testing.T) {
	text := "# A\nbody.\n## A.1\nsub body.\n### A.1.1\ndeep body.\n"
	sections := buildTestSections(text)
	opts := DefaultChunkingOptions()
	opts.MaxHeadingLevel = 2
	opts.MinChunkSize = 1

	candidates, err := chunkHierarchical(text, sections, opts)

	require.NoError(t, err)
	for _, c := range candidates {
		assert.LessOrEqual(t, c.Level, 2)
	}
}
