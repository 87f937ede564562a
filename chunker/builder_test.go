package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparateHeaderDetachesShortLeadingParagraphs(t *testing.T) {
	text := "Title line.\n\nSubtitle line.\n\nThis is the first real body paragraph with real content.\n"
	opts := DefaultChunkingOptions()
	opts.MaxHeaderParagraphs = 2
	opts.MaxHeaderParagraphLength = 40

	header, bodyStart := separateHeader(text, opts)

	require.NotEmpty(t, header)
	assert.Contains(t, header, "Title line")
	assert.Contains(t, header, "Subtitle line")
	assert.Greater(t, bodyStart, 0)
	assert.Less(t, bodyStart, len(text))
}

func TestSeparateHeaderNoShortLeadParagraphReturnsEmpty(t *testing.T) {
	text := "This first paragraph is already long enough to exceed the header paragraph length limit easily.\n"
	opts := DefaultChunkingOptions()
	opts.MaxHeaderParagraphLength = 10

	header, bodyStart := separateHeader(text, opts)

	assert.Empty(t, header)
	assert.Equal(t, 0, bodyStart)
}

func TestSeparateHeaderStopsAtFirstHeading(t *testing.T) {
	text := "# A\n\nbody a1.\n\n## A.1\n\nbody a2.\n"

	header, bodyStart := separateHeader(text, DefaultChunkingOptions())

	assert.Empty(t, header)
	assert.Equal(t, 0, bodyStart)
}

func TestDropHeaderCandidatesTrimsStraddlingCandidate(t *testing.T) {
	candidates := []Candidate{
		{Content: "header and body", StartChar: 0, EndChar: 16},
		{Content: "second chunk", StartChar: 16, EndChar: 28},
	}

	out := dropHeaderCandidates(candidates, 7)

	require.Len(t, out, 2)
	assert.Equal(t, 7, out[0].StartChar)
	assert.Equal(t, "and body", out[0].Content)
}

func TestDropHeaderCandidatesDropsFullyInsideHeader(t *testing.T) {
	candidates := []Candidate{
		{Content: "header only", StartChar: 0, EndChar: 11},
		{Content: "real body", StartChar: 11, EndChar: 20},
	}

	out := dropHeaderCandidates(candidates, 11)

	require.Len(t, out, 1)
	assert.Equal(t, "real body", out[0].Content)
}

func TestApplyOverlapPrependsTrailingWindow(t *testing.T) {
	candidates := []Candidate{
		{Content: "The quick brown fox jumps over the lazy dog. ", StartChar: 0, EndChar: 46},
		{Content: "Second sentence follows here.", StartChar: 46, EndChar: 76},
	}

	out := applyOverlap("", candidates, 10)

	require.Len(t, out, 2)
	assert.Contains(t, out[1].Content, "Second sentence follows here.")
	assert.Greater(t, len(out[1].Content), len("Second sentence follows here."))
}

func TestApplyOverlapSkipsNoOverlapCandidates(t *testing.T) {
	candidates := []Candidate{
		{Content: "fenced code block content", StartChar: 0, EndChar: 26, NoOverlap: true},
		{Content: "following text", StartChar: 26, EndChar: 41},
	}

	out := applyOverlap("", candidates, 10)

	assert.Equal(t, "following text", out[1].Content)
}

func TestMergeUndersizedMergesWithSmallerNeighbor(t *testing.T) {
	candidates := []Candidate{
		{Content: "a long enough first chunk of real content here", StartChar: 0, EndChar: 47},
		{Content: "tiny", StartChar: 47, EndChar: 51},
		{Content: "a long enough third chunk of real content here too", StartChar: 51, EndChar: 102},
	}
	opts := DefaultChunkingOptions()
	opts.MinChunkSize = 10
	opts.MaxChunkSize = 200

	out := mergeUndersized(candidates, opts)

	require.Len(t, out, 2)
	assert.Contains(t, out[0].Content, "tiny")
}

func TestMergeUndersizedLeavesAloneWhenMergeExceedsLimit(t *testing.T) {
	candidates := []Candidate{
		{Content: strings.Repeat("a", 300), StartChar: 0, EndChar: 300},
		{Content: "tiny", StartChar: 300, EndChar: 304},
		{Content: strings.Repeat("b", 300), StartChar: 304, EndChar: 604},
	}
	opts := DefaultChunkingOptions()
	opts.MinChunkSize = 10
	opts.MaxChunkSize = 200

	out := mergeUndersized(candidates, opts)

	require.Len(t, out, 3)
	assert.Equal(t, "tiny", out[1].Content)
	assert.True(t, out[1].Atomic)
}

func TestDeduplicateCollapsesHighOverlapPair(t *testing.T) {
	candidates := []Candidate{
		{Content: "the quick brown fox jumps over the lazy dog", StartChar: 0, EndChar: 44},
		{Content: "the quick brown fox jumps over the lazy dog and more", StartChar: 30, EndChar: 83},
	}

	out, warnings := deduplicate(candidates, nil)

	require.Len(t, out, 1)
	assert.NotEmpty(t, warnings)
	assert.Equal(t, "the quick brown fox jumps over the lazy dog and more", out[0].Content)
}

func TestDeduplicateKeepsDistinctCandidates(t *testing.T) {
	candidates := []Candidate{
		{Content: "cats are independent animals that sleep often", StartChar: 0, EndChar: 47},
		{Content: "finance reports show strong quarterly growth", StartChar: 47, EndChar: 93},
	}

	out, warnings := deduplicate(candidates, nil)

	require.Len(t, out, 2)
	assert.Empty(t, warnings)
}

func TestHeadingPathAtReturnsAncestorTitles(t *testing.T) {
	text := "# A\nbody a.\n## A.1\nbody a1.\n"
	sections := buildTestSections(text)

	path := headingPathAt(sections, len("# A\nbody a.\n")+2)

	assert.Equal(t, []string{"A", "A.1"}, path)
}

func TestHeadingPathAtOutOfRangeReturnsEmpty(t *testing.T) {
	path := headingPathAt(nil, 0)
	assert.Empty(t, path)
}

func TestPagesForRangeResolvesFirstAndLastPage(t *testing.T) {
	offsets := map[int]int{1: 0, 2: 50, 3: 100}

	start, end := pagesForRange(offsets, 10, 120)

	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, 1, *start)
	assert.Equal(t, 3, *end)
}

func TestPagesForRangeNoOffsetsReturnsNil(t *testing.T) {
	start, end := pagesForRange(nil, 0, 10)

	assert.Nil(t, start)
	assert.Nil(t, end)
}
