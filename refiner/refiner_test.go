package refiner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborline/chunkforge/capability"
	"github.com/arborline/chunkforge/schema"
)

func TestRefineEmptyTextWithNoTablesReturnsEmptyWithWarning(t *testing.T) {
	r := NewRefiner(nil)
	raw := schema.NewRawContent(schema.FileInfo{Name: "empty.txt"}, "", nil, nil, false)

	refined, err := r.Refine(context.Background(), raw, DefaultOptions())

	require.NoError(t, err)
	assert.Empty(t, refined.Text)
	assert.Contains(t, refined.Info.Warnings, "empty input")
	assert.Equal(t, raw.ID, refined.RawID)
}

func TestRefineBlankTextWithTablesSucceedsWithWarning(t *testing.T) {
	r := NewRefiner(nil)
	tables := []schema.TableData{schema.NewTableData([][]string{{"a", "b"}, {"1", "2"}}, true, nil, 0.9)}
	raw := schema.NewRawContent(schema.FileInfo{Name: "table.txt"}, "   ", nil, tables, false)

	refined, err := r.Refine(context.Background(), raw, DefaultOptions())

	require.NoError(t, err)
	assert.Contains(t, refined.Info.Warnings, "raw text was empty; refined content derived only from extracted tables")
	assert.Contains(t, refined.Text, "| a | b |")
}

func TestRefineBuildsSectionHierarchy(t *testing.T) {
	r := NewRefiner(nil)
	raw := schema.NewRawContent(schema.FileInfo{Name: "doc.md"}, "# A\nbody a1.\n## A.1\nbody a2.\n# B\nbody b.\n", nil, nil, false)

	refined, err := r.Refine(context.Background(), raw, DefaultOptions())

	require.NoError(t, err)
	require.Len(t, refined.Sections, 2)
	assert.Equal(t, "A", refined.Sections[0].Title)
	require.Len(t, refined.Sections[0].Children, 1)
	assert.Equal(t, "A.1", refined.Sections[0].Children[0].Title)
	assert.Equal(t, "B", refined.Sections[1].Title)
}

func TestRefineDetectsNumberedSectionHeading(t *testing.T) {
	r := NewRefiner(nil)
	raw := schema.NewRawContent(schema.FileInfo{Name: "doc.txt"}, "1.2.3 Deep Title\nbody text.\n", nil, nil, false)

	refined, err := r.Refine(context.Background(), raw, DefaultOptions())

	require.NoError(t, err)
	require.Len(t, refined.Sections, 1)
	assert.Equal(t, "Deep Title", refined.Sections[0].Title)
	assert.Equal(t, 3, refined.Sections[0].Level)
}

func TestRefinePreservesFencedCodeBlockVerbatim(t *testing.T) {
	r := NewRefiner(nil)
	code := "```python\ndef f():\n    return 1\n```"
	raw := schema.NewRawContent(schema.FileInfo{Name: "doc.md"}, "# Section\n"+code+"\n", nil, nil, false)

	refined, err := r.Refine(context.Background(), raw, DefaultOptions())

	require.NoError(t, err)
	assert.Contains(t, refined.Text, code)

	var found bool
	for _, s := range refined.Structures {
		if s.Kind == schema.ElementCode {
			found = true
			assert.Equal(t, "python", s.Language)
			assert.Contains(t, s.Content, "return 1")
		}
	}
	assert.True(t, found, "expected a code structured element")
}

func TestRefineConvertsBulletGlyphsButPreservesKoreanMarkers(t *testing.T) {
	r := NewRefiner(nil)
	raw := schema.NewRawContent(schema.FileInfo{Name: "doc.txt"}, "▸ first item\n▸ second item\n", nil, nil, false)

	refined, err := r.Refine(context.Background(), raw, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, refined.Text, "- first item")

	korean := "□ 개요\n내용 a.\nㅇ 세부\n내용 b.\n"
	rawKo := schema.NewRawContent(schema.FileInfo{Name: "ko.txt"}, korean, nil, nil, false)
	refinedKo, err := r.Refine(context.Background(), rawKo, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, refinedKo.Text, "□ 개요")
	assert.Contains(t, refinedKo.Text, "ㅇ 세부")
}

func TestRefineConvertsPipeTableWithoutSeparatorRow(t *testing.T) {
	r := NewRefiner(nil)
	raw := schema.NewRawContent(schema.FileInfo{Name: "doc.txt"}, "Name|Age\nAlice|30\nBob|40\n", nil, nil, false)

	refined, err := r.Refine(context.Background(), raw, DefaultOptions())

	require.NoError(t, err)
	assert.Contains(t, refined.Text, "| Name | Age |")
	assert.Contains(t, refined.Text, "| --- | --- |")

	var found bool
	for _, s := range refined.Structures {
		if s.Kind == schema.ElementTable {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRefineNormalizesImagePlaceholders(t *testing.T) {
	r := NewRefiner(nil)
	raw := schema.NewRawContent(schema.FileInfo{Name: "doc.txt"}, "See [image:a chart] below.\n", nil, nil, false)

	refined, err := r.Refine(context.Background(), raw, DefaultOptions())

	require.NoError(t, err)
	assert.Contains(t, refined.Text, "![a chart](embedded:img_1)")
}

func TestRefineQualityScoresWithinBounds(t *testing.T) {
	r := NewRefiner(nil)
	raw := schema.NewRawContent(schema.FileInfo{Name: "doc.md"}, "# Title\nSome body text.\n", nil, nil, false)

	refined, err := r.Refine(context.Background(), raw, DefaultOptions())

	require.NoError(t, err)
	assert.GreaterOrEqual(t, refined.Quality.Overall, 0.0)
	assert.LessOrEqual(t, refined.Quality.Overall, 1.0)
	assert.Equal(t, 0.8, refined.Quality.StructureScore)
}

// fakeTextCompletion is a minimal capability.TextCompletion stub local to
// this package's tests; only Complete is exercised by enhanceWithLLM.
type fakeTextCompletion struct {
	response string
	err      error
}

func (f fakeTextCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}
func (f fakeTextCompletion) AnalyzeStructure(ctx context.Context, content string) (capability.StructureAnalysisResult, error) {
	return capability.StructureAnalysisResult{}, nil
}
func (f fakeTextCompletion) Summarize(ctx context.Context, content string) (capability.ContentSummary, error) {
	return capability.ContentSummary{}, nil
}
func (f fakeTextCompletion) ExtractMetadata(ctx context.Context, content string) (capability.MetadataExtractionResult, error) {
	return capability.MetadataExtractionResult{}, nil
}
func (f fakeTextCompletion) AssessQuality(ctx context.Context, chunkText, contextHeader string) (capability.QualityAssessment, error) {
	return capability.QualityAssessment{}, nil
}

func TestRefineLLMEnhancementFallsBackOnUnparseableResponse(t *testing.T) {
	r := &Refiner{LLM: fakeTextCompletion{response: "no code fence here"}}

	text, fellBack, warn := r.enhanceWithLLM(context.Background(), "# Title\nbody\n")

	assert.True(t, fellBack)
	assert.Equal(t, "# Title\nbody\n", text)
	assert.NotEmpty(t, warn)
}

func TestRefineLLMEnhancementUsesFencedResponse(t *testing.T) {
	r := &Refiner{LLM: fakeTextCompletion{response: "```markdown\n# Reordered\nbody\n```"}}

	text, fellBack, _ := r.enhanceWithLLM(context.Background(), "# Title\nbody\n")

	assert.False(t, fellBack)
	assert.Equal(t, "# Reordered\nbody", text)
}
