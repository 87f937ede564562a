package reader

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arborline/chunkforge/schema"
)

// DOCXReader extracts RawContent from Microsoft Word (.docx) files by
// walking word/document.xml's paragraph/run/table structure directly.
// Native tables become structured TableData rather than flattened text,
// and embedded media presence becomes the
// HasImages hint rather than extracted image bytes (no ImageToText
// collaborator call happens at read time; that is the refiner's job once
// it has an ElementImage reference to resolve).
type DOCXReader struct {
	ExtractTables bool
}

// NewDOCXReader creates a DOCXReader with table extraction on.
func NewDOCXReader() *DOCXReader {
	return &DOCXReader{ExtractTables: true}
}

func (r *DOCXReader) Extensions() []string { return []string{".docx"} }

func (r *DOCXReader) Extract(ctx context.Context, sourcePath string, data []byte) (*schema.RawContent, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reader: open docx: %w", err)
	}

	text, tables, err := r.extractDocumentText(zipReader)
	if err != nil {
		return nil, fmt.Errorf("reader: extract docx text: %w", err)
	}

	info := schema.FileInfo{
		Name:      filepath.Base(sourcePath),
		Extension: ".docx",
		Size:      int64(len(data)),
	}

	hasImages := r.hasMedia(zipReader)

	hints := make(map[string]any)
	if props, err := r.extractCoreProperties(zipReader); err == nil {
		for k, v := range props {
			hints["docx."+k] = v
		}
	}

	raw := schema.NewRawContent(info, strings.TrimSpace(text), hints, tables, hasImages)
	return &raw, nil
}

type docxDocument struct {
	XMLName xml.Name      `xml:"document"`
	Body    docxBody      `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
	Content    []docxContent   `xml:",any"`
}

type docxContent struct {
	XMLName    xml.Name
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxParagraph struct {
	Runs       []docxRun       `xml:"r"`
	Hyperlinks []docxHyperlink `xml:"hyperlink"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
	Tab  []struct{} `xml:"tab"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

type docxHyperlink struct {
	Runs []docxRun `xml:"r"`
}

type docxTable struct {
	Rows []docxTableRow `xml:"tr"`
}

type docxTableRow struct {
	Cells []docxTableCell `xml:"tc"`
}

type docxTableCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

func (r *DOCXReader) extractDocumentText(zipReader *zip.Reader) (string, []schema.TableData, error) {
	for _, file := range zipReader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", nil, err
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return "", nil, err
		}
		return r.parseDocumentXML(content)
	}
	return "", nil, fmt.Errorf("document.xml not found in docx")
}

func (r *DOCXReader) parseDocumentXML(content []byte) (string, []schema.TableData, error) {
	var doc docxDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return r.extractTextFallback(content), nil, nil
	}

	var textParts []string
	var tables []schema.TableData

	for _, c := range doc.Body.Content {
		switch c.XMLName.Local {
		case "p":
			for _, para := range c.Paragraphs {
				if text := r.extractParagraphText(&para); text != "" {
					textParts = append(textParts, text)
				}
			}
		case "tbl":
			if r.ExtractTables {
				for _, tbl := range c.Tables {
					tables = append(tables, r.extractTableData(&tbl))
				}
			}
		}
	}

	for _, para := range doc.Body.Paragraphs {
		if text := r.extractParagraphText(&para); text != "" {
			textParts = append(textParts, text)
		}
	}
	if r.ExtractTables {
		for _, tbl := range doc.Body.Tables {
			tables = append(tables, r.extractTableData(&tbl))
		}
	}

	return strings.Join(textParts, "\n\n"), tables, nil
}

func (r *DOCXReader) extractParagraphText(para *docxParagraph) string {
	var parts []string
	for _, run := range para.Runs {
		for _, text := range run.Text {
			if text.Content != "" {
				parts = append(parts, text.Content)
			}
		}
		for range run.Tab {
			parts = append(parts, "\t")
		}
	}
	for _, link := range para.Hyperlinks {
		for _, run := range link.Runs {
			for _, text := range run.Text {
				if text.Content != "" {
					parts = append(parts, text.Content)
				}
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

func (r *DOCXReader) extractTableData(tbl *docxTable) schema.TableData {
	var rows [][]string
	for _, row := range tbl.Rows {
		var cells []string
		for _, cell := range row.Cells {
			var cellText []string
			for _, para := range cell.Paragraphs {
				if text := r.extractParagraphText(&para); text != "" {
					cellText = append(cellText, text)
				}
			}
			cells = append(cells, strings.Join(cellText, " "))
		}
		rows = append(rows, cells)
	}
	return schema.NewTableData(rows, true, nil, 0.9)
}

var docxTextFallbackRegex = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

func (r *DOCXReader) extractTextFallback(content []byte) string {
	matches := docxTextFallbackRegex.FindAllSubmatch(content, -1)
	var parts []string
	for _, m := range matches {
		if len(m) > 1 && len(m[1]) > 0 {
			parts = append(parts, string(m[1]))
		}
	}
	return strings.Join(parts, " ")
}

type docxCoreProperties struct {
	XMLName     xml.Name `xml:"coreProperties"`
	Title       string   `xml:"title"`
	Subject     string   `xml:"subject"`
	Creator     string   `xml:"creator"`
	Keywords    string   `xml:"keywords"`
	Description string   `xml:"description"`
}

func (r *DOCXReader) extractCoreProperties(zipReader *zip.Reader) (map[string]string, error) {
	props := make(map[string]string)
	for _, file := range zipReader.File {
		if file.Name != "docProps/core.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}

		var core docxCoreProperties
		if err := xml.Unmarshal(content, &core); err != nil {
			return nil, err
		}
		if core.Title != "" {
			props["title"] = core.Title
		}
		if core.Subject != "" {
			props["subject"] = core.Subject
		}
		if core.Creator != "" {
			props["author"] = core.Creator
		}
		if core.Keywords != "" {
			props["keywords"] = core.Keywords
		}
		if core.Description != "" {
			props["description"] = core.Description
		}
		return props, nil
	}
	return props, nil
}

var docxImageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
}

func (r *DOCXReader) hasMedia(zipReader *zip.Reader) bool {
	for _, file := range zipReader.File {
		if !strings.HasPrefix(file.Name, "word/media/") {
			continue
		}
		if docxImageExtensions[strings.ToLower(filepath.Ext(file.Name))] {
			return true
		}
	}
	return false
}
