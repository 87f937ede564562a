package reader

import (
	"bytes"
	"context"
	"strings"

	"github.com/arborline/chunkforge/schema"
)

// BytesSource resolves an in-memory buffer to a registered Reader and
// extracts it, for callers that never had a file on disk (an upload
// handler, a message attachment). Format is resolved from an
// extension hint when the caller has one, falling back to magic-byte
// sniffing otherwise.
type BytesSource struct {
	registry *Registry
}

// NewBytesSource wraps registry for in-memory extraction.
func NewBytesSource(registry *Registry) *BytesSource {
	return &BytesSource{registry: registry}
}

// Extract resolves data's format and runs the matching Reader. nameHint is
// an optional filename or extension (e.g. "report.pdf" or ".pdf"); pass ""
// to rely entirely on magic-byte sniffing.
func (s *BytesSource) Extract(ctx context.Context, nameHint string, data []byte) (*schema.RawContent, error) {
	ext := extensionHint(nameHint)
	if ext == "" {
		ext = sniffExtension(data)
	}
	if ext == "" {
		return nil, &ErrUnsupportedFormat{Extension: "(unknown)"}
	}

	r, ok := s.registry.Lookup(ext)
	if !ok {
		return nil, &ErrUnsupportedFormat{Extension: ext}
	}

	sourcePath := nameHint
	if sourcePath == "" {
		sourcePath = "buffer" + ext
	}
	return r.Extract(ctx, sourcePath, data)
}

func extensionHint(nameHint string) string {
	nameHint = strings.TrimSpace(nameHint)
	if nameHint == "" {
		return ""
	}
	if strings.HasPrefix(nameHint, ".") && !strings.Contains(nameHint, "/") {
		return strings.ToLower(nameHint)
	}
	if idx := strings.LastIndex(nameHint, "."); idx >= 0 {
		return strings.ToLower(nameHint[idx:])
	}
	return ""
}

var (
	pdfMagic   = []byte("%PDF-")
	zipMagic   = []byte{0x50, 0x4B, 0x03, 0x04}
	gifMagicB  = []byte("GIF8")
	pngMagicB  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegMagicB = []byte{0xFF, 0xD8, 0xFF}
)

// sniffExtension guesses a file extension from magic bytes, generalizing
// the same prefix-matching capability.SniffImageType uses for images to
// the document formats this package reads directly. ZIP-based formats
// (docx, xlsx) are indistinguishable from raw magic bytes alone, so ZIP
// content defaults to docx; callers who know better should pass nameHint.
func sniffExtension(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return ".pdf"
	case bytes.HasPrefix(data, zipMagic):
		return ".docx"
	case bytes.HasPrefix(data, pngMagicB), bytes.HasPrefix(data, jpegMagicB), bytes.HasPrefix(data, gifMagicB):
		return ""
	case looksLikeHTML(data):
		return ".html"
	case looksLikePlainText(data):
		return ".txt"
	default:
		return ""
	}
}

// looksLikePlainText reports whether data is free of NUL bytes and other
// control characters that wouldn't appear in genuine text, so arbitrary
// binary garbage doesn't get misrouted to the text reader.
func looksLikePlainText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, b := range data {
		if b == 0 {
			return false
		}
		if b < 0x09 {
			return false
		}
		if b > 0x0D && b < 0x20 {
			return false
		}
	}
	return true
}

func looksLikeHTML(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	lower := bytes.ToLower(trimmed)
	return bytes.HasPrefix(lower, []byte("<!doctype html")) ||
		bytes.HasPrefix(lower, []byte("<html")) ||
		(bytes.HasPrefix(lower, []byte("<")) && bytes.Contains(lower, []byte("</")))
}
