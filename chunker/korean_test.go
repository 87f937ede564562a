package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKoreanSectionsNoMarkersReturnsNil(t *testing.T) {
	sections := koreanSections("just plain text\nwith no markers\n", 0)

	assert.Nil(t, sections)
}

func TestKoreanSectionsTwoTierNesting(t *testing.T) {
	text := "□ 개요\nintro body.\nㅇ 세부\ndetail body.\n□ 결론\nclosing body.\n"

	sections := koreanSections(text, 0)

	require.Len(t, sections, 2)
	assert.Equal(t, "개요", sections[0].Title)
	assert.Equal(t, 0, sections[0].Level)
	require.Len(t, sections[0].Children, 1)
	assert.Equal(t, "세부", sections[0].Children[0].Title)
	assert.Equal(t, 1, sections[0].Children[0].Level)
	assert.Equal(t, "결론", sections[1].Title)
}

func TestKoreanMarkerLineRecognizesOuterAndInner(t *testing.T) {
	depth, title, ok := koreanMarkerLine("■ Overview\n")
	require.True(t, ok)
	assert.Equal(t, 0, depth)
	assert.Equal(t, "Overview", title)

	depth, title, ok = koreanMarkerLine("  ○ Detail\n")
	require.True(t, ok)
	assert.Equal(t, 1, depth)
	assert.Equal(t, "Detail", title)

	_, _, ok = koreanMarkerLine("not a marker line\n")
	assert.False(t, ok)
}
