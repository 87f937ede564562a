package reader

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/arborline/chunkforge/schema"
)

// TextReader extracts RawContent from plain text, treating blank-line
// separated blocks as the only structural signal available: a block whose
// first line looks like a heading (short, no trailing punctuation, set off
// by blank lines on both sides) sets the HasHeadings hint, and lines
// starting with a bullet marker set HasLists. Falls back to replacing
// invalid UTF-8 sequences rather than rejecting the source outright, since
// plain-text sources have no declared encoding to check against.
type TextReader struct{}

// NewTextReader creates a TextReader.
func NewTextReader() *TextReader { return &TextReader{} }

func (r *TextReader) Extensions() []string {
	return []string{".txt", ".text", ".log", ".csv", ".tsv"}
}

func (r *TextReader) Extract(ctx context.Context, sourcePath string, data []byte) (*schema.RawContent, error) {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	hasHeadings, hasLists := scanPlainTextStructure(text)

	info := schema.FileInfo{
		Name:      filepath.Base(sourcePath),
		Extension: strings.ToLower(filepath.Ext(sourcePath)),
		Size:      int64(len(data)),
	}
	hints := map[string]any{
		schema.HintHasHeadings: hasHeadings,
		schema.HintHasLists:    hasLists,
	}

	raw := schema.NewRawContent(info, strings.TrimSpace(text), hints, nil, false)
	return &raw, nil
}

func scanPlainTextStructure(text string) (hasHeadings, hasLists bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "+ ") {
			hasLists = true
		}
		if looksLikeHeadingLine(trimmed, lines, i) {
			hasHeadings = true
		}
	}
	return hasHeadings, hasLists
}

func looksLikeHeadingLine(trimmed string, lines []string, idx int) bool {
	if len(trimmed) == 0 || len(trimmed) > 80 {
		return false
	}
	if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, ",") {
		return false
	}
	blankBefore := idx == 0 || strings.TrimSpace(lines[idx-1]) == ""
	blankAfter := idx == len(lines)-1 || strings.TrimSpace(lines[idx+1]) == ""
	return blankBefore && blankAfter
}
