// Package capability defines the optional external collaborator contracts
// the pipeline calls out to: text completion (LLM), embedding, and
// image-to-text. Every stage that accepts one of these must degrade to a
// heuristic when it is nil.
package capability

import "context"

// StructureAnalysisResult is the LLM's opinion on a refined document's
// structure, used by the refiner when heuristic section detection is weak.
type StructureAnalysisResult struct {
	Headings   []string
	SectionMap map[string]string
	Confidence float64
}

// ContentSummary is a short abstractive summary of a chunk or section,
// used for contextual headers when heuristic extraction yields nothing
// useful (e.g. a table with no caption).
type ContentSummary struct {
	Summary    string
	KeyPoints  []string
	Confidence float64
}

// MetadataExtractionResult is LLM-extracted document metadata (title,
// author, topics) used to fill gaps the format-specific reader left blank.
type MetadataExtractionResult struct {
	Title      string
	Author     string
	Topics     []string
	Language   string
	Confidence float64
}

// QualityAssessment is the verdict from the enricher's 3-stage LLM quality
// filter: whether a chunk carries enough standalone
// value to keep.
type QualityAssessment struct {
	Keep       bool
	Score      float64
	Reason     string
	Confidence float64
}

// TextCompletion is the optional LLM collaborator. Implementations must be
// safe for concurrent use; callers treat any returned error as non-fatal
// (errkit.KindExternalService) and fall back to heuristics.
type TextCompletion interface {
	// Complete returns free-form text for prompt.
	Complete(ctx context.Context, prompt string) (string, error)

	// AnalyzeStructure asks the model to identify headings and section
	// boundaries in content.
	AnalyzeStructure(ctx context.Context, content string) (StructureAnalysisResult, error)

	// Summarize produces a short summary of content.
	Summarize(ctx context.Context, content string) (ContentSummary, error)

	// ExtractMetadata asks the model to infer document-level metadata.
	ExtractMetadata(ctx context.Context, content string) (MetadataExtractionResult, error)

	// AssessQuality judges whether a chunk is worth keeping standalone.
	AssessQuality(ctx context.Context, chunkText, contextHeader string) (QualityAssessment, error)
}
