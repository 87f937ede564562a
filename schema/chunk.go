package schema

import (
	"time"

	"github.com/google/uuid"
)

// SourceLocation anchors a chunk back to the refined text and, when
// available, to pages and a section. Invariant: 0 <= StartChar <= EndChar.
type SourceLocation struct {
	StartChar   int
	EndChar     int
	StartPage   *int
	EndPage     *int
	Section     string
	HeadingPath []string
}

// ChunkType classifies a chunk's place in a hierarchical chunk set.
type ChunkType string

const (
	ChunkTypeFlat   ChunkType = "flat"
	ChunkTypeRoot   ChunkType = "root"
	ChunkTypeBranch ChunkType = "branch"
	ChunkTypeLeaf   ChunkType = "leaf"
)

// SourceMetadataInfo records which upstream artifacts produced a chunk,
// for full traceability from chunk back to byte range.
type SourceMetadataInfo struct {
	FileName  string
	Extension string
}

// DocumentChunk is a self-contained, retrieval-ready fragment of a
// document with rich metadata. Index is 0-based and contiguous within a
// document.
type DocumentChunk struct {
	ID       string
	RawID    string
	ParsedID string
	Content  string
	Index    int
	Location SourceLocation
	Metadata DocumentMetadata

	Quality    float64
	Importance float64
	Density    float64

	Strategy  string
	Tokens    int
	CreatedAt time.Time
	Props     map[string]any

	// ContextDependency is true when the chunk cannot be understood
	// without its heading path or neighbors (e.g. a code block whose
	// preceding prose is in another chunk).
	ContextDependency bool
	SourceInfo        SourceMetadataInfo

	// Hierarchical fields. ParentID is non-nil iff Level > 0.
	ParentID *string
	ChildIDs []string
	Level    int
	Type     ChunkType
	GroupID  string

	ContentType     string
	StructuralRole  string
	ContextualHeader string
}

// NewDocumentChunk builds a chunk with a fresh ID and CreatedAt, leaving
// Index/ordering fields for the caller (the chunk builder) to set.
func NewDocumentChunk(rawID, parsedID, content string, loc SourceLocation) *DocumentChunk {
	return &DocumentChunk{
		ID:       uuid.NewString(),
		RawID:    rawID,
		ParsedID: parsedID,
		Content:  content,
		Location: loc,
		Props:    make(map[string]any),
		Type:     ChunkTypeFlat,
		CreatedAt: time.Now(),
	}
}

// IsAtomic reports whether a chunk is flagged as an unsplittable region
// below min_chunk_size.
func (c *DocumentChunk) IsAtomic() bool {
	atomic, _ := c.Props["atomic"].(bool)
	return atomic
}

// SetAtomic marks the chunk as an atomic below-minimum fragment.
func (c *DocumentChunk) SetAtomic() {
	c.Props["atomic"] = true
}
