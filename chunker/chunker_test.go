package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborline/chunkforge/schema"
)

func TestChunkEmptyInputYieldsEmptyWarning(t *testing.T) {
	raw := schema.NewRawContent(schema.FileInfo{}, "", nil, nil, false)
	refined := schema.NewRefinedContent(raw.ID, "")

	result, err := Chunk(context.Background(), raw, refined, DefaultChunkingOptions(), nil)

	require.NoError(t, err)
	assert.Empty(t, result.Chunks)
	assert.Contains(t, result.Warnings, "empty input")
}

func TestChunkFixedSizeProducesContiguousIndices(t *testing.T) {
	text := strings.Repeat("word ", 2000)
	raw := schema.NewRawContent(schema.FileInfo{}, text, nil, nil, false)
	refined := schema.NewRefinedContent(raw.ID, text)

	opts := DefaultChunkingOptions()
	opts.Strategy = StrategyFixedSize
	opts.OverlapSize = 0
	opts.PreserveSentences = false

	result, err := Chunk(context.Background(), raw, refined, opts, nil)

	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)
	for i, c := range result.Chunks {
		assert.Equal(t, i, c.Index)
		assert.LessOrEqual(t, c.Location.StartChar, c.Location.EndChar)
		assert.LessOrEqual(t, len(c.Content), opts.MaxChunkSize+1)
	}
}

func TestChunkMarkdownHeadingsIntelligentProducesHeadingPaths(t *testing.T) {
	text := "# A\nbody a1.\n## A.1\nbody a2.\n# B\nbody b.\n"
	raw := schema.NewRawContent(schema.FileInfo{}, text, nil, nil, false)
	refined := schema.NewRefinedContent(raw.ID, text)
	refined.Sections = buildTestSections(text)

	opts := DefaultChunkingOptions()
	opts.Strategy = StrategyIntelligent
	opts.MaxHeadingLevel = 3

	result, err := Chunk(context.Background(), raw, refined, opts, nil)

	require.NoError(t, err)
	require.Len(t, result.Chunks, 3)
	assert.Equal(t, []string{"A"}, result.Chunks[0].Location.HeadingPath)
	assert.Equal(t, []string{"A", "A.1"}, result.Chunks[1].Location.HeadingPath)
	assert.Equal(t, []string{"B"}, result.Chunks[2].Location.HeadingPath)
	for _, c := range result.Chunks {
		assert.Positive(t, c.Tokens)
	}

	require.NotNil(t, result.Chunks[1].ParentID)
	assert.Equal(t, result.Chunks[0].ID, *result.Chunks[1].ParentID)
	assert.Contains(t, result.Chunks[0].ChildIDs, result.Chunks[1].ID)
	assert.Nil(t, result.Chunks[2].ParentID)
}

func TestChunkKoreanMarkersNestSections(t *testing.T) {
	text := "□ 개요\n내용 a.\nㅇ 세부\n내용 b.\n"
	raw := schema.NewRawContent(schema.FileInfo{}, text, nil, nil, false)
	refined := schema.NewRefinedContent(raw.ID, text)

	opts := DefaultChunkingOptions()
	opts.Strategy = StrategyIntelligent

	result, err := Chunk(context.Background(), raw, refined, opts, nil)

	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, []string{"개요"}, result.Chunks[0].Location.HeadingPath)
	assert.Equal(t, []string{"개요", "세부"}, result.Chunks[1].Location.HeadingPath)
}

func TestChunkHierarchicalLinksParentChild(t *testing.T) {
	text := "# A\nbody a1.\n## A.1\nbody a2.\n"
	raw := schema.NewRawContent(schema.FileInfo{}, text, nil, nil, false)
	refined := schema.NewRefinedContent(raw.ID, text)
	refined.Sections = buildTestSections(text)

	opts := DefaultChunkingOptions()
	opts.Strategy = StrategyHierarchical
	opts.MaxHeadingLevel = 3
	opts.MinChunkSize = 1

	result, err := Chunk(context.Background(), raw, refined, opts, nil)

	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)
	root, child := result.Chunks[0], result.Chunks[1]
	assert.Equal(t, schema.ChunkTypeRoot, root.Type)
	assert.Nil(t, root.ParentID)
	assert.Contains(t, root.ChildIDs, child.ID)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)
	assert.Equal(t, root.Level+1, child.Level)
}

func TestChunkForceStrategyOverridesAuto(t *testing.T) {
	text := strings.Repeat("sentence one. ", 50)
	raw := schema.NewRawContent(schema.FileInfo{}, text, nil, nil, false)
	refined := schema.NewRefinedContent(raw.ID, text)

	opts := DefaultChunkingOptions()
	opts.Strategy = StrategyAuto
	opts.StrategyOptions.ForceStrategy = StrategyFixedSize

	result, err := Chunk(context.Background(), raw, refined, opts, nil)

	require.NoError(t, err)
	assert.Equal(t, StrategyFixedSize, result.UsedStrategy)
}

// buildTestSections is a minimal stand-in for the refiner's section
// builder, used only to give chunker tests a realistic section tree
// without importing the refiner package (which would create an import
// cycle risk as both grow). Mirrors refiner.buildSections's
// occurrence-then-nest algorithm.
func buildTestSections(text string) []*schema.Section {
	type occurrence struct {
		level int
		title string
		start int
	}
	var occurrences []occurrence
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimRight(line, "\n")
		if strings.HasPrefix(trimmed, "#") {
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' {
				level++
			}
			occurrences = append(occurrences, occurrence{level: level, title: strings.TrimSpace(trimmed[level:]), start: offset})
		}
		offset += len(line)
	}

	sections := make([]*schema.Section, len(occurrences))
	for i, occ := range occurrences {
		end := len(text)
		for j := i + 1; j < len(occurrences); j++ {
			if occurrences[j].level <= occ.level {
				end = occurrences[j].start
				break
			}
		}
		sections[i] = schema.NewSection(occ.title, occ.level, occ.start, end)
	}

	var roots []*schema.Section
	var stack []*schema.Section
	for _, s := range sections {
		for len(stack) > 0 && stack[len(stack)-1].Level >= s.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, s)
		} else {
			stack[len(stack)-1].Children = append(stack[len(stack)-1].Children, s)
		}
		stack = append(stack, s)
	}
	return roots
}
