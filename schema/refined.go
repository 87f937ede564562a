package schema

import "github.com/google/uuid"

// SectionType classifies a node in the section tree.
type SectionType string

const (
	SectionTypeHeading SectionType = "heading"
	SectionTypeRoot    SectionType = "root"
)

// Section is a node in the heading hierarchy of refined text. Invariant:
// Start <= End; children's ranges lie within the parent's; levels are
// monotone non-decreasing from root to leaf along any path.
type Section struct {
	ID       string
	Title    string
	Type     SectionType
	Content  string
	Level    int
	Start    int
	End      int
	Children []*Section
}

// NewSection creates a Section with a fresh ID.
func NewSection(title string, level, start, end int) *Section {
	return &Section{
		ID:    uuid.NewString(),
		Title: title,
		Type:  SectionTypeHeading,
		Level: level,
		Start: start,
		End:   end,
	}
}

// StructuredElementKind tags the variant held by a StructuredElement.
type StructuredElementKind string

const (
	ElementCode  StructuredElementKind = "code"
	ElementTable StructuredElementKind = "table"
	ElementList  StructuredElementKind = "list"
	ElementImage StructuredElementKind = "image"
)

// ElementLocation is the character range a StructuredElement occupies in
// refined text.
type ElementLocation struct {
	StartChar int
	EndChar   int
}

// StructuredElement is a non-prose region identified in refined text:
// a code block, table, list, or image, each carrying enough payload to
// reconstruct it and a location for traceability back to refined text.
type StructuredElement struct {
	Kind     StructuredElementKind
	Location ElementLocation

	// SourceChunkID is assigned during the chunk stage once the element's
	// containing chunk is known; empty until then.
	SourceChunkID string

	// Code
	Language string
	Content  string

	// Table
	Rows [][]string

	// List
	Items []string

	// Image
	ImageRef string
	Alt      string
	Width    int
	Height   int
}

// DocumentDomain is the document-level content domain chosen by the
// enricher from keyword density.
type DocumentDomain string

const (
	DomainTechnical DocumentDomain = "technical"
	DomainBusiness  DocumentDomain = "business"
	DomainAcademic  DocumentDomain = "academic"
	DomainGeneral   DocumentDomain = "general"
)

// DocumentMetadata carries document-level facts discovered during
// refinement and enrichment, including any document header paragraphs
// detached by the chunk builder's header-separation step.
type DocumentMetadata struct {
	Title          string
	Domain         DocumentDomain
	DomainInferred bool // true when Domain defaulted to General for lack of an LLM
	HeadingLevels  map[int]int
	HeaderText     string
	Extra          map[string]any
}

// RefinementQuality holds the heuristic quality scores computed during
// refinement.
type RefinementQuality struct {
	StructureScore  float64
	CleanupScore    float64
	RetentionScore  float64
	ConfidenceScore float64
	Overall         float64
}

// RefinementInfo records non-fatal anomalies encountered while refining.
type RefinementInfo struct {
	Warnings       []string
	UsedLLM        bool
	LLMFellBack    bool
	TruncatedInput bool
}

// RefinedContent is the immutable output of the refine stage: cleaned,
// structurally annotated markdown.
type RefinedContent struct {
	ID       string
	RawID    string
	Text     string
	Sections []*Section
	Structures []StructuredElement
	Metadata DocumentMetadata
	Quality  RefinementQuality
	Info     RefinementInfo
}

// NewRefinedContent constructs a RefinedContent with a fresh ID.
func NewRefinedContent(rawID, text string) RefinedContent {
	return RefinedContent{
		ID:    uuid.NewString(),
		RawID: rawID,
		Text:  text,
		Metadata: DocumentMetadata{
			HeadingLevels: make(map[int]int),
			Extra:         make(map[string]any),
		},
	}
}
