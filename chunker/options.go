// Package chunker splits RefinedContent into ordered DocumentChunks using
// one of several interchangeable strategies, then finalizes them with a
// shared post-processing pipeline: header separation, Korean section
// markers, overlap, minimum-size merging, deduplication and indexing.
package chunker

// Strategy names one of the chunking algorithms.
type Strategy string

const (
	StrategyAuto         Strategy = "auto"
	StrategySmart        Strategy = "smart"
	StrategyIntelligent  Strategy = "intelligent"
	StrategySemantic     Strategy = "semantic"
	StrategyParagraph    Strategy = "paragraph"
	StrategyFixedSize    Strategy = "fixed_size"
	StrategyHierarchical Strategy = "hierarchical"
	StrategyPageLevel    Strategy = "page_level"
)

// StrategyOptions tunes the Auto strategy's analysis.
type StrategyOptions struct {
	ForceStrategy          Strategy
	ConfidenceThreshold    float64
	EnableCache            bool
	MaxAnalysisTimeSeconds int
	PreferSpeed            bool
	PreferQuality          bool
	CustomProperties       map[string]any
}

// ChunkingOptions is the shared configuration for every strategy and for
// the chunk builder.
type ChunkingOptions struct {
	Strategy Strategy

	MaxChunkSize int
	OverlapSize  int
	MinChunkSize int

	PreserveParagraphs bool
	PreserveSentences  bool

	MaxHeadingLevel int

	SeparateDocumentHeader  bool
	MaxHeaderParagraphs     int
	MaxHeaderParagraphLength int

	RecognizeKoreanSectionMarkers bool
	DeduplicateOverlaps           bool

	LanguageCode string

	StrategyOptions StrategyOptions
}

// DefaultChunkingOptions returns the documented defaults.
func DefaultChunkingOptions() ChunkingOptions {
	return ChunkingOptions{
		Strategy: StrategyAuto,

		MaxChunkSize: 1024,
		OverlapSize:  128,
		MinChunkSize: 200,

		PreserveParagraphs: true,
		PreserveSentences:  true,

		MaxHeadingLevel: 3,

		SeparateDocumentHeader:   true,
		MaxHeaderParagraphs:      5,
		MaxHeaderParagraphLength: 200,

		RecognizeKoreanSectionMarkers: true,
		DeduplicateOverlaps:           true,

		LanguageCode: "auto",

		StrategyOptions: StrategyOptions{
			ConfidenceThreshold:    0.6,
			MaxAnalysisTimeSeconds: 300,
		},
	}
}

// koreanSectionMarkers are the glyphs treated as section boundaries when
// RecognizeKoreanSectionMarkers is set: the outer markers (□, ■) open
// sections at MaxHeadingLevel-1 (never below 1) and the inner markers
// (ㅇ, ○, ●, ◆) open sections one level deeper.
var koreanSectionMarkers = []string{"□", "ㅇ", "■", "○", "●", "◆"}
