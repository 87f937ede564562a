package reader

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	readability "github.com/go-shiori/go-readability"

	"github.com/arborline/chunkforge/schema"
)

// HTMLReader extracts RawContent from HTML by running readability's
// boilerplate-stripping extraction, then converting the remaining article
// HTML to Markdown, rather than stripping tags with regexes.
type HTMLReader struct{}

// NewHTMLReader creates an HTMLReader.
func NewHTMLReader() *HTMLReader { return &HTMLReader{} }

func (r *HTMLReader) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

var htmlTitleRegex = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)

func (r *HTMLReader) Extract(ctx context.Context, sourcePath string, data []byte) (*schema.RawContent, error) {
	html := string(data)

	var articleHTML, title string
	if art, err := readability.FromReader(strings.NewReader(html), nil); err == nil && strings.TrimSpace(art.Content) != "" {
		articleHTML = art.Content
		title = strings.TrimSpace(art.Title)
	} else {
		articleHTML = html
	}

	if title == "" {
		if m := htmlTitleRegex.FindStringSubmatch(html); len(m) > 1 {
			title = strings.TrimSpace(m[1])
		}
	}

	md, err := htmltomarkdown.ConvertString(articleHTML)
	if err != nil {
		return nil, err
	}
	md = strings.TrimSpace(md)
	if title != "" && !strings.HasPrefix(md, "# ") {
		md = "# " + title + "\n\n" + md
	}

	info := schema.FileInfo{
		Name:      filepath.Base(sourcePath),
		Extension: ".html",
		Size:      int64(len(data)),
	}

	hints := map[string]any{
		schema.HintHasHeadings: strings.Contains(md, "#"),
		schema.HintHasLists:    strings.Contains(md, "\n- ") || strings.Contains(md, "\n* "),
	}
	if title != "" {
		hints["html.title"] = title
	}

	raw := schema.NewRawContent(info, md, hints, nil, strings.Contains(md, "!["))
	return &raw, nil
}
