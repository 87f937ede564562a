// Package boundary classifies the cut between two consecutive text
// segments and computes a confidence score for it.
// Detection degrades to a text-only heuristic whenever no embedding
// service is configured or the embedding call fails; it never fails the
// caller's stage.
package boundary

// Type classifies the kind of boundary found between two segments.
type Type string

const (
	TypeSection     Type = "section"
	TypeCodeBlock   Type = "code_block"
	TypeTable       Type = "table"
	TypeList        Type = "list"
	TypeTopicChange Type = "topic_change"
	TypeParagraph   Type = "paragraph"
	TypeSentence    Type = "sentence"
)

// Boundary is the verdict for a single pair of segments.
type Boundary struct {
	IsBoundary bool
	Similarity float64
	Confidence float64
	Type       Type
	// UsedEmbedding records which similarity method produced the result,
	// for callers that want to surface a fallback warning.
	UsedEmbedding bool
}

// Point is one entry in a DetectAll run: the boundary found immediately
// after segments[SegmentIndex].
type Point struct {
	SegmentIndex int
	Similarity   float64
	Confidence   float64
	Type         Type
	IsBoundary   bool
}
