// Package enricher attaches RAG-useful metadata to chunks: content type,
// structural role, domain, keywords, quality/density/importance scores,
// a contextual header, and an optional LLM-based relevance filter.
package enricher

import (
	"regexp"
	"strings"
)

// ContentType classifies a chunk's dominant content
type ContentType string

const (
	ContentTypeText    ContentType = "text"
	ContentTypeCode    ContentType = "code"
	ContentTypeTable   ContentType = "table"
	ContentTypeList    ContentType = "list"
	ContentTypeHeading ContentType = "heading"
)

// StructuralRole is derived from ContentType for retrieval filtering.
type StructuralRole string

const (
	RoleTitle         StructuralRole = "title"
	RoleCodeBlock     StructuralRole = "code_block"
	RoleTableContent  StructuralRole = "table_content"
	RoleListContent   StructuralRole = "list_content"
	RoleContent       StructuralRole = "content"
)

var (
	codeSignatureRegex = regexp.MustCompile(`(?m)^\s*(func |def |class |import |package |const |var |public |private |#include)`)
	listLineRegex       = regexp.MustCompile(`(?m)^\s*([-*+]\s+|\d+\.\s+)`)
	headingLikeRegex    = regexp.MustCompile(`^#{1,6}\s+\S`)
)

// ClassifyContentType implements the content-type rule:
// fenced/code-signature text wins first, then tables (>=2 pipe lines),
// then lists, then a short heading-like single line, else plain text.
func ClassifyContentType(content string) ContentType {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ContentTypeText
	}

	if strings.HasPrefix(trimmed, "```") || codeSignatureRegex.MatchString(trimmed) {
		return ContentTypeCode
	}

	pipeLines := 0
	for _, line := range strings.Split(trimmed, "\n") {
		if strings.Count(line, "|") >= 2 {
			pipeLines++
		}
	}
	if pipeLines >= 2 {
		return ContentTypeTable
	}

	if listLineRegex.MatchString(trimmed) {
		return ContentTypeList
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) == 1 && len(trimmed) < 120 {
		if headingLikeRegex.MatchString(trimmed) {
			return ContentTypeHeading
		}
		if isCapitalizedTitleLine(trimmed) {
			return ContentTypeHeading
		}
	}

	return ContentTypeText
}

func isCapitalizedTitleLine(s string) bool {
	for _, r := range s {
		return r >= 'A' && r <= 'Z'
	}
	return false
}

// StructuralRoleFor derives the structural role from a content type.
func StructuralRoleFor(ct ContentType) StructuralRole {
	switch ct {
	case ContentTypeHeading:
		return RoleTitle
	case ContentTypeCode:
		return RoleCodeBlock
	case ContentTypeTable:
		return RoleTableContent
	case ContentTypeList:
		return RoleListContent
	default:
		return RoleContent
	}
}
