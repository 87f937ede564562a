package schema

import "time"

// ProcessingStage names a pipeline stage for metrics and error reporting.
type ProcessingStage string

const (
	StageExtract   ProcessingStage = "extract"
	StageRefine    ProcessingStage = "refine"
	StageLLMRefine ProcessingStage = "llm_refine"
	StageChunk     ProcessingStage = "chunk"
	StageEnrich    ProcessingStage = "enrich"
)

// ProcessingError is a stage-tagged failure recorded in ProcessingResult
// so batch consumers can inspect partial progress without unwrapping a Go
// error value.
type ProcessingError struct {
	Stage   ProcessingStage
	Message string
	Cause   error
}

func (e ProcessingError) Error() string {
	if e.Cause != nil {
		return string(e.Stage) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Stage) + ": " + e.Message
}

func (e ProcessingError) Unwrap() error { return e.Cause }

// StageMetrics aggregates per-stage durations and document-level totals.
type StageMetrics struct {
	ExtractDuration   time.Duration
	RefineDuration    time.Duration
	LLMRefineDuration time.Duration
	ChunkDuration     time.Duration
	EnrichDuration    time.Duration

	SourceFileSize      int64
	OriginalCharCount   int
	RefinedCharCount    int
	StructuresExtracted int
	TotalChunks         int
	TotalTokens         int
	GraphNodes          int
	GraphEdges          int
	LLMRefineTokens     int
}

// ProcessingResult is the coordinator's aggregate output. Each field is
// populated by the stage that owns it; the enrich stage replaces Chunks
// (and Metrics.TotalChunks) set by the chunk stage with its enriched,
// possibly filtered, set.
type ProcessingResult struct {
	DocumentID string

	Raw        *RawContent
	Refined    *RefinedContent
	LLMRefined *RefinedContent
	Chunks     []*DocumentChunk
	Graph      *DocumentGraph

	Metrics  StageMetrics
	Errors   []ProcessingError
	Warnings []string
}

// NewProcessingResult creates an empty result for a document; stages
// populate their fields as they complete.
func NewProcessingResult(documentID string) *ProcessingResult {
	return &ProcessingResult{DocumentID: documentID}
}

// AddWarning appends a non-fatal anomaly.
func (r *ProcessingResult) AddWarning(w string) {
	r.Warnings = append(r.Warnings, w)
}

// AddError records a stage failure without panicking; callers still
// propagate the corresponding Go error up through their own return path.
func (r *ProcessingResult) AddError(stage ProcessingStage, message string, cause error) {
	r.Errors = append(r.Errors, ProcessingError{Stage: stage, Message: message, Cause: cause})
}
