// Package schema defines the value types that flow through the ingestion
// pipeline: raw extraction output, refined markdown, chunks, and the
// document graph. Every type here is a plain value; no stage mutates a
// struct it did not produce.
package schema

import (
	"time"

	"github.com/google/uuid"
)

// FileInfo describes the source file a RawContent was extracted from.
type FileInfo struct {
	Name         string
	Extension    string
	Size         int64
	CreatedAt    time.Time
	ModifiedAt   time.Time
}

// ColumnAlignment is the alignment of a markdown table column.
type ColumnAlignment string

const (
	AlignLeft    ColumnAlignment = "left"
	AlignRight   ColumnAlignment = "right"
	AlignCenter  ColumnAlignment = "center"
	AlignJustify ColumnAlignment = "justify"
	AlignNone    ColumnAlignment = "none"
)

// TableData is a table extracted from a source document, either an inline
// markdown/HTML table or a spreadsheet sheet.
type TableData struct {
	Cells             [][]string
	HasHeader         bool
	ColumnAlignments  []ColumnAlignment
	Confidence        float64
	NeedsLLMAssist    bool
}

// NewTableData builds a TableData, setting NeedsLLMAssist when the
// extraction confidence is below 0.7.
func NewTableData(cells [][]string, hasHeader bool, alignments []ColumnAlignment, confidence float64) TableData {
	return TableData{
		Cells:            cells,
		HasHeader:        hasHeader,
		ColumnAlignments: alignments,
		Confidence:       confidence,
		NeedsLLMAssist:   confidence < 0.7,
	}
}

// RawContent is the immutable output of the extraction stage: opaque
// source bytes turned into text plus structural hints.
type RawContent struct {
	ID         string
	File       FileInfo
	Text       string
	Hints      map[string]any
	Tables     []TableData
	HasTables  bool
	HasImages  bool
}

// Hint keys populated by readers.
const (
	HintHasHeadings  = "HasHeadings"
	HintHasTables    = "HasTables"
	HintHasLists     = "HasLists"
	HintHasImages    = "HasImages"
	HintTableCount   = "TableCount"
	HintPageCount    = "PageCount"
	// HintPageOffsets maps page number (1-based) to the character offset
	// of that page's first rune within RawContent.Text. Populated by
	// readers that have genuine page boundaries (PDF); consumed by the
	// PageLevel chunking strategy.
	HintPageOffsets = "PageOffsets"
)

// NewRawContent constructs a RawContent with a fresh ID, deriving the
// HasTables/HasImages flags and the TableCount hint from the supplied
// tables so callers cannot forget to keep them in sync.
func NewRawContent(file FileInfo, text string, hints map[string]any, tables []TableData, hasImages bool) RawContent {
	if hints == nil {
		hints = make(map[string]any)
	}
	hints[HintTableCount] = len(tables)
	hints[HintHasTables] = len(tables) > 0
	hints[HintHasImages] = hasImages

	return RawContent{
		ID:        uuid.NewString(),
		File:      file,
		Text:      text,
		Hints:     hints,
		Tables:    tables,
		HasTables: len(tables) > 0,
		HasImages: hasImages,
	}
}
