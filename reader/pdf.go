package reader

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/arborline/chunkforge/schema"
)

// PDFReader extracts RawContent from PDF bytes, concatenating per-page
// plain text and recording per-page byte offsets into the joined text so
// the PageLevel chunking strategy can recover page boundaries via
// schema.HintPageOffsets.
type PDFReader struct{}

// NewPDFReader creates a PDFReader.
func NewPDFReader() *PDFReader { return &PDFReader{} }

func (r *PDFReader) Extensions() []string { return []string{".pdf"} }

func (r *PDFReader) Extract(ctx context.Context, sourcePath string, data []byte) (*schema.RawContent, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reader: open pdf: %w", err)
	}

	numPages := pdfReader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("reader: pdf has no pages")
	}

	var text strings.Builder
	pageOffsets := make(map[int]int, numPages)

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			pageOffsets[pageNum] = text.Len()
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			pageOffsets[pageNum] = text.Len()
			continue
		}

		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			pageOffsets[pageNum] = text.Len()
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		pageOffsets[pageNum] = text.Len()
		text.WriteString(pageText)
	}

	fullText := strings.TrimSpace(text.String())
	if fullText == "" {
		return nil, fmt.Errorf("reader: no text content found in pdf")
	}

	info := schema.FileInfo{
		Name:      filepath.Base(sourcePath),
		Extension: ".pdf",
		Size:      int64(len(data)),
	}

	hints := map[string]any{
		schema.HintPageCount:    numPages,
		schema.HintPageOffsets: pageOffsets,
	}

	raw := schema.NewRawContent(info, fullText, hints, nil, false)
	return &raw, nil
}
