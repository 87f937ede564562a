// Package reader turns opaque byte sources into schema.RawContent: text
// plus structural hints and embedded tables/images.
// Readers are registered by file extension; the registry returns the
// first matching reader, case-insensitively.
package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/arborline/chunkforge/schema"
)

// Reader extracts a RawContent from a source's bytes. Implementations must
// be deterministic: the same bytes always yield an equal RawContent except
// for ID and timestamps.
type Reader interface {
	// Extract parses data (the full contents of sourcePath, or an in-memory
	// buffer) into a RawContent.
	Extract(ctx context.Context, sourcePath string, data []byte) (*schema.RawContent, error)

	// Extensions lists the lowercase file extensions this reader handles,
	// including the leading dot (e.g. ".pdf").
	Extensions() []string
}

// Registry maps file extensions to readers. Lookup is case-insensitive
// and the first registered reader for an extension wins.
type Registry struct {
	byExt map[string]Reader
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Reader)}
}

// Register adds r under every extension it declares that has no reader
// yet; an extension already registered keeps its earlier reader.
func (reg *Registry) Register(r Reader) {
	for _, ext := range r.Extensions() {
		key := strings.ToLower(ext)
		if _, exists := reg.byExt[key]; exists {
			continue
		}
		reg.byExt[key] = r
	}
}

// Lookup returns the reader registered for ext (case-insensitive, leading
// dot optional), or false if none is registered.
func (reg *Registry) Lookup(ext string) (Reader, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r, ok := reg.byExt[ext]
	return r, ok
}

// ErrUnsupportedFormat is returned by Extract when no reader is registered
// for a source's extension.
type ErrUnsupportedFormat struct {
	Extension string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("reader: unsupported format %q", e.Extension)
}

// NewDefaultRegistry returns a Registry with every built-in reader
// registered.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(NewTextReader())
	reg.Register(NewMarkdownReader())
	reg.Register(NewHTMLReader())
	reg.Register(NewPDFReader())
	reg.Register(NewDOCXReader())
	reg.Register(NewXLSXReader())
	return reg
}
