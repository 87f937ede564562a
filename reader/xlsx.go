package reader

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/arborline/chunkforge/schema"
)

// XLSXReader extracts RawContent from Excel workbooks (.xlsx, .xlsm), one
// TableData per sheet plus a flattened "header: value" text rendering so
// the text-based chunking strategies have something to work with even
// before a TableFocused strategy consumes Tables directly. One RawContent
// is produced per workbook, with each sheet contributing a TableData.
type XLSXReader struct {
	// HasHeader treats each sheet's first row as column headers.
	HasHeader bool
}

// NewXLSXReader creates an XLSXReader that treats the first row of each
// sheet as a header row.
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{HasHeader: true}
}

func (r *XLSXReader) Extensions() []string {
	return []string{".xlsx", ".xlsm", ".xltx", ".xltm"}
}

func (r *XLSXReader) Extract(ctx context.Context, sourcePath string, data []byte) (*schema.RawContent, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reader: open xlsx: %w", err)
	}
	defer f.Close()

	sheetNames := f.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("reader: xlsx has no sheets")
	}

	var textParts []string
	var tables []schema.TableData

	for _, sheetName := range sheetNames {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("reader: read sheet %q: %w", sheetName, err)
		}
		if len(rows) == 0 {
			continue
		}

		tables = append(tables, schema.NewTableData(rows, r.HasHeader, nil, 0.9))

		sheetText := r.renderSheetText(rows)
		if sheetText != "" {
			textParts = append(textParts, fmt.Sprintf("## %s\n%s", sheetName, sheetText))
		}
	}

	info := schema.FileInfo{
		Name:      filepath.Base(sourcePath),
		Extension: strings.ToLower(filepath.Ext(sourcePath)),
		Size:      int64(len(data)),
	}

	hints := map[string]any{
		"xlsx.sheetCount": len(sheetNames),
		"xlsx.sheetNames": sheetNames,
	}

	raw := schema.NewRawContent(info, strings.Join(textParts, "\n\n"), hints, tables, false)
	return &raw, nil
}

func (r *XLSXReader) renderSheetText(rows [][]string) string {
	var headers []string
	startRow := 0
	if r.HasHeader {
		headers = rows[0]
		startRow = 1
	}

	var lines []string
	for _, row := range rows[startRow:] {
		var parts []string
		for i, val := range row {
			val = strings.TrimSpace(val)
			if val == "" {
				continue
			}
			if headers != nil && i < len(headers) && headers[i] != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", headers[i], val))
			} else {
				parts = append(parts, val)
			}
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, " | "))
		}
	}
	return strings.Join(lines, "\n")
}
