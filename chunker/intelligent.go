package chunker

import (
	"strings"

	"github.com/arborline/chunkforge/schema"
)

// chunkIntelligent implements the Intelligent pipeline: heading detection,
// structure-aware grouping, and a FixedSize fallback for any region longer
// than max_chunk_size. Text outside every kept heading (the prologue before
// the first heading and any trailing text after the last one) forms a
// region of its own under the same rule. Every heading
// at or above max_heading_level depth opens its own candidate; only
// deeper headings fold into the surrounding content. Nested candidates
// link to their enclosing section's candidate via ParentIndex, so the
// finalized chunks carry the parent/child edges the document graph
// renders. Per-chunk domain/keyword scoring happens later in the
// enricher.
func chunkIntelligent(text string, sections []*schema.Section, opts ChunkingOptions) ([]Candidate, error) {
	kept := keptSections(sections, opts.MaxHeadingLevel)
	if len(kept) == 0 {
		cands, err := chunkFixedSize(text, opts)
		if err != nil {
			return nil, err
		}
		return markTopLevel(cands), nil
	}

	var out []Candidate

	appendRegion := func(start, end, level, parentIdx int) error {
		if start >= end {
			return nil
		}
		region := text[start:end]
		if strings.TrimSpace(region) == "" {
			return nil
		}
		if len(region) > opts.MaxChunkSize {
			sub, err := chunkFixedSize(region, opts)
			if err != nil {
				return err
			}
			for _, c := range sub {
				c.StartChar += start
				c.EndChar += start
				c.Level = level
				c.ParentIndex = parentIdx
				out = append(out, c)
			}
			return nil
		}
		out = append(out, Candidate{
			Content:     strings.TrimSpace(region),
			StartChar:   start,
			EndChar:     end,
			TokensEst:   estimateTokens(region),
			Level:       level,
			ParentIndex: parentIdx,
		})
		return nil
	}

	// emitSection appends the section's own content (its heading line and
	// body up to the first kept child heading), then recurses into kept
	// children linked back to it.
	var emitSection func(s *schema.Section, level, parentIdx int) error
	emitSection = func(s *schema.Section, level, parentIdx int) error {
		children := keptSections(s.Children, opts.MaxHeadingLevel)
		ownEnd := s.End
		if len(children) > 0 {
			ownEnd = children[0].Start
		}

		idx := len(out)
		if err := appendRegion(s.Start, ownEnd, level, parentIdx); err != nil {
			return err
		}
		if idx == len(out) {
			// Own region was blank; children attach one level up.
			idx = parentIdx
		}

		cursor := ownEnd
		for _, child := range children {
			if child.Start > cursor {
				if err := appendRegion(cursor, child.Start, level, parentIdx); err != nil {
					return err
				}
			}
			if err := emitSection(child, level+1, idx); err != nil {
				return err
			}
			if child.End > cursor {
				cursor = child.End
			}
		}
		if cursor < s.End {
			return appendRegion(cursor, s.End, level, parentIdx)
		}
		return nil
	}

	cursor := 0
	for _, s := range kept {
		if s.Start > cursor {
			if err := appendRegion(cursor, s.Start, 0, -1); err != nil {
				return nil, err
			}
		}
		if err := emitSection(s, 0, -1); err != nil {
			return nil, err
		}
		if s.End > cursor {
			cursor = s.End
		}
	}
	if cursor < len(text) {
		if err := appendRegion(cursor, len(text), 0, -1); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// keptSections returns the outermost sections at or above maxLevel depth
// in document order, descending into a section's children only when the
// section itself is deeper than maxLevel (its own heading folds into the
// surrounding content).
func keptSections(sections []*schema.Section, maxLevel int) []*schema.Section {
	var out []*schema.Section
	for _, s := range sections {
		if s.Level <= maxLevel {
			out = append(out, s)
			continue
		}
		out = append(out, keptSections(s.Children, maxLevel)...)
	}
	return out
}

// markTopLevel resets hierarchy fields on candidates produced by a flat
// sub-strategy, so the zero-valued ParentIndex cannot alias candidate 0
// as their parent.
func markTopLevel(cands []Candidate) []Candidate {
	for i := range cands {
		cands[i].Level = 0
		cands[i].ParentIndex = -1
	}
	return cands
}
