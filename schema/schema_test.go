package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRawContentDerivesHints(t *testing.T) {
	tables := []TableData{NewTableData([][]string{{"a", "b"}}, true, nil, 0.9)}
	raw := NewRawContent(FileInfo{Name: "doc.md"}, "hello", nil, tables, true)

	assert.NotEmpty(t, raw.ID)
	assert.True(t, raw.HasTables)
	assert.True(t, raw.HasImages)
	assert.Equal(t, 1, raw.Hints[HintTableCount])
	assert.Equal(t, true, raw.Hints[HintHasTables])
}

func TestNewTableDataConfidenceThreshold(t *testing.T) {
	low := NewTableData(nil, false, nil, 0.5)
	high := NewTableData(nil, false, nil, 0.9)

	assert.True(t, low.NeedsLLMAssist)
	assert.False(t, high.NeedsLLMAssist)
}

func TestNewRefinedContentInitializesMaps(t *testing.T) {
	refined := NewRefinedContent("raw-1", "# Title\n")

	assert.NotEmpty(t, refined.ID)
	assert.Equal(t, "raw-1", refined.RawID)
	assert.NotNil(t, refined.Metadata.HeadingLevels)
	assert.NotNil(t, refined.Metadata.Extra)
}

func TestDocumentChunkAtomicFlag(t *testing.T) {
	chunk := NewDocumentChunk("raw-1", "parsed-1", "short", SourceLocation{StartChar: 0, EndChar: 5})

	assert.False(t, chunk.IsAtomic())
	chunk.SetAtomic()
	assert.True(t, chunk.IsAtomic())
}

func TestDocumentChunkParentLevelInvariant(t *testing.T) {
	root := NewDocumentChunk("raw-1", "parsed-1", "root", SourceLocation{})
	root.Type = ChunkTypeRoot
	root.Level = 0

	child := NewDocumentChunk("raw-1", "parsed-1", "child", SourceLocation{})
	child.ParentID = &root.ID
	child.Level = root.Level + 1
	root.ChildIDs = append(root.ChildIDs, child.ID)

	assert.Nil(t, root.ParentID)
	assert.NotNil(t, child.ParentID)
	assert.Equal(t, root.Level+1, child.Level)
	assert.Contains(t, root.ChildIDs, child.ID)
}

func TestProcessingResultStartsEmpty(t *testing.T) {
	result := NewProcessingResult("doc-1")

	assert.Equal(t, "doc-1", result.DocumentID)
	assert.Nil(t, result.Raw)
	assert.Nil(t, result.Refined)
	assert.Nil(t, result.Chunks)
	assert.Nil(t, result.Graph)
	assert.Empty(t, result.Errors)
}

func TestProcessingErrorUnwraps(t *testing.T) {
	cause := assert.AnError
	err := ProcessingError{Stage: StageChunk, Message: "bad split", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "chunk")
}
