package capability

import (
	"context"
)

// MockTextCompletion is a scriptable TextCompletion for tests: a fixed
// response or error, never both.
type MockTextCompletion struct {
	Response  string
	Structure StructureAnalysisResult
	Summary   ContentSummary
	Metadata  MetadataExtractionResult
	Quality   QualityAssessment
	Err       error
}

// NewMockTextCompletion returns a MockTextCompletion that always answers
// with response.
func NewMockTextCompletion(response string) *MockTextCompletion {
	return &MockTextCompletion{Response: response}
}

// NewMockTextCompletionWithError returns a MockTextCompletion that always
// fails with err.
func NewMockTextCompletionWithError(err error) *MockTextCompletion {
	return &MockTextCompletion{Err: err}
}

func (m *MockTextCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockTextCompletion) AnalyzeStructure(ctx context.Context, content string) (StructureAnalysisResult, error) {
	if m.Err != nil {
		return StructureAnalysisResult{}, m.Err
	}
	return m.Structure, nil
}

func (m *MockTextCompletion) Summarize(ctx context.Context, content string) (ContentSummary, error) {
	if m.Err != nil {
		return ContentSummary{}, m.Err
	}
	return m.Summary, nil
}

func (m *MockTextCompletion) ExtractMetadata(ctx context.Context, content string) (MetadataExtractionResult, error) {
	if m.Err != nil {
		return MetadataExtractionResult{}, m.Err
	}
	return m.Metadata, nil
}

func (m *MockTextCompletion) AssessQuality(ctx context.Context, chunkText, contextHeader string) (QualityAssessment, error) {
	if m.Err != nil {
		return QualityAssessment{}, m.Err
	}
	return m.Quality, nil
}

// MockEmbedding is a scriptable Embedding for tests.
type MockEmbedding struct {
	Vector []float32
	Err    error
	Dims   int
}

// NewMockEmbedding returns a MockEmbedding that always answers with vector.
func NewMockEmbedding(vector []float32) *MockEmbedding {
	return &MockEmbedding{Vector: vector, Dims: len(vector)}
}

// NewMockEmbeddingWithError returns a MockEmbedding that always fails.
func NewMockEmbeddingWithError(err error) *MockEmbedding {
	return &MockEmbedding{Err: err}
}

func (m *MockEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}

func (m *MockEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.Vector
	}
	return out, nil
}

func (m *MockEmbedding) Dimensions() int { return m.Dims }

// MockImageToText is a scriptable ImageToText for tests.
type MockImageToText struct {
	Result ImageToTextResult
	Err    error
}

// NewMockImageToText returns a MockImageToText that always answers with result.
func NewMockImageToText(result ImageToTextResult) *MockImageToText {
	return &MockImageToText{Result: result}
}

func (m *MockImageToText) ExtractText(ctx context.Context, imageBytes []byte) (ImageToTextResult, error) {
	if m.Err != nil {
		return ImageToTextResult{}, m.Err
	}
	result := m.Result
	if result.ImageType == "" {
		result.ImageType = SniffImageType(imageBytes)
	}
	return result, nil
}
