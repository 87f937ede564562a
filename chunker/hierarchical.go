package chunker

import (
	"strings"

	"github.com/arborline/chunkforge/schema"
)

// chunkHierarchical walks the section tree emitting one candidate per
// section at or above max_heading_level depth. A section whose content
// exceeds max_chunk_size is additionally split into paragraph-level
// children linked back to that section's own candidate via ParentIndex,
// producing the parent/child pairs a HierarchicalDocumentChunk set relies
// on. Deeper headings below max_heading_level
// are folded into their nearest kept ancestor's content rather than
// dropped.
func chunkHierarchical(text string, sections []*schema.Section, opts ChunkingOptions) ([]Candidate, error) {
	var out []Candidate
	var walkErr error

	var walk func(secs []*schema.Section, level, parentIdx int)
	walk = func(secs []*schema.Section, level, parentIdx int) {
		for _, s := range secs {
			if s.Level > opts.MaxHeadingLevel {
				walk(s.Children, level, parentIdx)
				continue
			}

			content := strings.TrimSpace(text[s.Start:s.End])
			idx := len(out)
			out = append(out, Candidate{
				Content:     content,
				StartChar:   s.Start,
				EndChar:     s.End,
				TokensEst:   estimateTokens(content),
				Level:       level,
				ParentIndex: parentIdx,
			})

			if len(content) > opts.MaxChunkSize {
				children, err := chunkParagraph(text[s.Start:s.End], opts)
				if err != nil {
					walkErr = err
					return
				}
				for _, c := range children {
					c.StartChar += s.Start
					c.EndChar += s.Start
					c.Level = level + 1
					c.ParentIndex = idx
					out = append(out, c)
				}
			}

			walk(s.Children, level+1, idx)
		}
	}
	walk(sections, 0, -1)
	if walkErr != nil {
		return nil, walkErr
	}

	if len(out) == 0 {
		cands, err := chunkParagraph(text, opts)
		if err != nil {
			return nil, err
		}
		return markTopLevel(cands), nil
	}
	return out, nil
}
