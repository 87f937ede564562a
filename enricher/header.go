package enricher

import (
	"strings"

	"github.com/arborline/chunkforge/schema"
)

// ContextualHeaderInput carries the fields a contextual header is
// synthesized from.
type ContextualHeaderInput struct {
	DocumentTitle string
	Section       string
	ContentType   ContentType
	Role          StructuralRole
	Domain        schema.DocumentDomain
	Keywords      []string
}

// SynthesizeContextualHeader builds the one-line "Document: T | Section:
// S | Type: C | Role: R | Domain: D | Tech: K1,K2,K3" header, omitting
// any field that has nothing to say.
func SynthesizeContextualHeader(in ContextualHeaderInput) string {
	var parts []string
	if in.DocumentTitle != "" {
		parts = append(parts, "Document: "+in.DocumentTitle)
	}
	if in.Section != "" {
		parts = append(parts, "Section: "+in.Section)
	}
	if in.ContentType != "" {
		parts = append(parts, "Type: "+string(in.ContentType))
	}
	if in.Role != "" {
		parts = append(parts, "Role: "+string(in.Role))
	}
	if in.Domain != "" {
		parts = append(parts, "Domain: "+string(in.Domain))
	}
	if len(in.Keywords) > 0 {
		limit := in.Keywords
		if len(limit) > 3 {
			limit = limit[:3]
		}
		parts = append(parts, "Tech: "+strings.Join(limit, ","))
	}
	return strings.Join(parts, " | ")
}
