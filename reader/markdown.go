package reader

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmext "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/arborline/chunkforge/schema"
)

// MarkdownReader extracts RawContent from Markdown, using goldmark's AST
// (with the GFM extension for table detection) to detect structural hints
// (headings, lists, tables, images) and yaml.v3 to decode YAML frontmatter
// into document metadata.
type MarkdownReader struct {
	md goldmark.Markdown
}

// NewMarkdownReader creates a MarkdownReader.
func NewMarkdownReader() *MarkdownReader {
	return &MarkdownReader{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

func (r *MarkdownReader) Extensions() []string {
	return []string{".md", ".markdown", ".mdown", ".mkd"}
}

func (r *MarkdownReader) Extract(ctx context.Context, sourcePath string, data []byte) (*schema.RawContent, error) {
	body, frontmatter := extractFrontmatter(string(data))

	src := []byte(body)
	doc := r.md.Parser().Parse(text.NewReader(src))

	hints := make(map[string]any)
	headingCount, listCount, imageCount := 0, 0, 0
	var tables []schema.TableData

	err := gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch n.Kind() {
		case gast.KindHeading:
			headingCount++
		case gast.KindList:
			listCount++
		case gast.KindImage:
			imageCount++
		case gmext.KindTable:
			if table, ok := n.(*gmext.Table); ok {
				tables = append(tables, extractMarkdownTable(table, src))
			}
		}
		return gast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	hints[schema.HintHasHeadings] = headingCount > 0
	hints[schema.HintHasLists] = listCount > 0
	for k, v := range frontmatter {
		hints["frontmatter."+k] = v
	}

	info := schema.FileInfo{
		Name:      filepath.Base(sourcePath),
		Extension: ".md",
		Size:      int64(len(data)),
	}

	raw := schema.NewRawContent(info, strings.TrimSpace(body), hints, tables, imageCount > 0)
	return &raw, nil
}

func extractMarkdownTable(table *gmext.Table, src []byte) schema.TableData {
	var cells [][]string
	hasHeader := false

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var rowCells []string
		isHeaderRow := row.Kind() == gmext.KindTableHeader
		if isHeaderRow {
			hasHeader = true
		}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			rowCells = append(rowCells, extractNodeText(cell, src))
		}
		cells = append(cells, rowCells)
	}

	confidence := 0.95
	if len(cells) == 0 {
		confidence = 0.0
	}
	return schema.NewTableData(cells, hasHeader, nil, confidence)
}

func extractNodeText(n gast.Node, src []byte) string {
	var sb strings.Builder
	gast.Walk(n, func(child gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		if t, ok := child.(*gast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
		return gast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// extractFrontmatter splits off a leading YAML frontmatter block
// (--- ... ---) and decodes it with yaml.v3, returning the remaining body
// and the decoded key/value pairs.
func extractFrontmatter(content string) (string, map[string]any) {
	if !strings.HasPrefix(content, "---") {
		return content, nil
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 3 {
		return content, nil
	}

	endIdx := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			endIdx = i
			break
		}
	}
	if endIdx == -1 {
		return content, nil
	}

	frontmatterYAML := strings.Join(lines[1:endIdx], "\n")
	var metadata map[string]any
	if err := yaml.Unmarshal([]byte(frontmatterYAML), &metadata); err != nil {
		return content, nil
	}

	body := strings.Join(lines[endIdx+1:], "\n")
	return body, metadata
}
