package enricher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborline/chunkforge/capability"
	"github.com/arborline/chunkforge/schema"
)

func TestClassifyContentTypeDetectsCode(t *testing.T) {
	ct := ClassifyContentType("```go\nfunc main() {}\n```")
	assert.Equal(t, ContentTypeCode, ct)
}

func TestClassifyContentTypeDetectsTable(t *testing.T) {
	ct := ClassifyContentType("| a | b |\n| - | - |\n| 1 | 2 |")
	assert.Equal(t, ContentTypeTable, ct)
}

func TestClassifyContentTypeDetectsList(t *testing.T) {
	ct := ClassifyContentType("- one\n- two\n- three")
	assert.Equal(t, ContentTypeList, ct)
}

func TestClassifyContentTypeDetectsHeading(t *testing.T) {
	assert.Equal(t, ContentTypeHeading, ClassifyContentType("## Overview"))
}

func TestClassifyContentTypeDefaultsToText(t *testing.T) {
	assert.Equal(t, ContentTypeText, ClassifyContentType("Just a plain paragraph of prose.\nIt continues on a second line."))
}

func TestStructuralRoleForMapping(t *testing.T) {
	assert.Equal(t, RoleTitle, StructuralRoleFor(ContentTypeHeading))
	assert.Equal(t, RoleCodeBlock, StructuralRoleFor(ContentTypeCode))
	assert.Equal(t, RoleTableContent, StructuralRoleFor(ContentTypeTable))
	assert.Equal(t, RoleListContent, StructuralRoleFor(ContentTypeList))
	assert.Equal(t, RoleContent, StructuralRoleFor(ContentTypeText))
}

func TestClassifyDomainPicksDensestDomain(t *testing.T) {
	text := strings.Repeat("The REST API exposes a JSON endpoint over HTTPS with JWT auth. ", 5)
	assert.Equal(t, schema.DomainTechnical, ClassifyDomain(text))
}

func TestClassifyDomainDefaultsToGeneral(t *testing.T) {
	assert.Equal(t, schema.DomainGeneral, ClassifyDomain("A story about a cat and a dog in a garden."))
	assert.Equal(t, schema.DomainGeneral, ClassifyDomain(""))
}

func TestExtractTechnicalKeywordsDedupesAndUppercases(t *testing.T) {
	keywords := ExtractTechnicalKeywords("Our api uses API gateway and also JSON bodies.")
	assert.Contains(t, keywords, "API")
	assert.Contains(t, keywords, "JSON")
	count := 0
	for _, k := range keywords {
		if k == "API" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCompletenessScoreHasFloor(t *testing.T) {
	assert.GreaterOrEqual(t, CompletenessScore(""), 0.7)
	assert.GreaterOrEqual(t, CompletenessScore("no terminators here"), 0.7)
}

func TestSynthesizeContextualHeaderCapsTechKeywordsAtThree(t *testing.T) {
	header := SynthesizeContextualHeader(ContextualHeaderInput{
		DocumentTitle: "Runbook",
		Section:       "Rollback",
		ContentType:   ContentTypeText,
		Role:          RoleContent,
		Domain:        schema.DomainTechnical,
		Keywords:      []string{"API", "JWT", "SQL", "AWS"},
	})
	assert.Equal(t, "Document: Runbook | Section: Rollback | Type: text | Role: content | Domain: technical | Tech: API,JWT,SQL", header)
}

func TestSynthesizeContextualHeaderEmptyInputYieldsEmptyString(t *testing.T) {
	assert.Equal(t, "", SynthesizeContextualHeader(ContextualHeaderInput{}))
}

func newTestChunk(content string) *schema.DocumentChunk {
	return schema.NewDocumentChunk("raw-1", "parsed-1", content, schema.SourceLocation{
		HeadingPath: []string{"Intro"},
	})
}

func TestEnrichAnnotatesEveryChunk(t *testing.T) {
	e := NewEnricher(nil)
	refined := schema.NewRefinedContent("raw-1", "The REST API returns JSON over HTTPS.")
	refined.Metadata.Title = "API Guide"
	chunks := []*schema.DocumentChunk{
		newTestChunk("## Endpoints"),
		newTestChunk("The REST API returns JSON over HTTPS with JWT auth tokens for clients."),
	}
	opts := DefaultOptions()
	opts.RunQualityFilter = false

	out, warnings, err := e.Enrich(context.Background(), refined, chunks, opts)

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, out, 2)
	assert.Equal(t, string(ContentTypeHeading), out[0].ContentType)
	assert.Equal(t, string(RoleTitle), out[0].StructuralRole)
	assert.Equal(t, schema.DomainTechnical, out[1].Metadata.Domain)
	assert.NotEmpty(t, out[1].ContextualHeader)
	assert.Contains(t, out[1].ContextualHeader, "Document: API Guide")
	assert.Greater(t, out[1].Density, 0.0)
}

func TestEnrichWithoutLLMFiltersAndWarns(t *testing.T) {
	e := NewEnricher(nil)
	refined := schema.NewRefinedContent("raw-1", "short")
	chunks := make([]*schema.DocumentChunk, 0, 20)
	for i := 0; i < 20; i++ {
		chunks = append(chunks, newTestChunk(strings.Repeat("word ", 60)))
	}
	opts := DefaultOptions()
	opts.Filter.MinRelevanceScore = 0

	out, warnings, err := e.Enrich(context.Background(), refined, chunks, opts)

	require.NoError(t, err)
	assert.Len(t, out, 20)
	assert.Contains(t, warnings, "llm filter unavailable; used heuristic")
}

type stubQualityCompletion struct {
	score float64
}

func (s stubQualityCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	return "", nil
}
func (s stubQualityCompletion) AnalyzeStructure(ctx context.Context, content string) (capability.StructureAnalysisResult, error) {
	return capability.StructureAnalysisResult{}, nil
}
func (s stubQualityCompletion) Summarize(ctx context.Context, content string) (capability.ContentSummary, error) {
	return capability.ContentSummary{}, nil
}
func (s stubQualityCompletion) ExtractMetadata(ctx context.Context, content string) (capability.MetadataExtractionResult, error) {
	return capability.MetadataExtractionResult{}, nil
}
func (s stubQualityCompletion) AssessQuality(ctx context.Context, chunkText, contextHeader string) (capability.QualityAssessment, error) {
	return capability.QualityAssessment{Keep: s.score >= 0.7, Score: s.score, Confidence: 0.9}, nil
}

func TestEnrichWithLLMProducesNoUnavailableWarning(t *testing.T) {
	e := NewEnricher(stubQualityCompletion{score: 0.9})
	refined := schema.NewRefinedContent("raw-1", "content")
	chunks := []*schema.DocumentChunk{newTestChunk(strings.Repeat("relevant content here. ", 20))}
	opts := DefaultOptions()
	opts.Filter.MinRelevanceScore = 0

	_, warnings, err := e.Enrich(context.Background(), refined, chunks, opts)

	require.NoError(t, err)
	assert.NotContains(t, warnings, "llm filter unavailable; used heuristic")
}
