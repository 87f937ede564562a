package chunker

import (
	"sort"

	"github.com/arborline/chunkforge/schema"
)

// chunkPageLevel emits one candidate per page using the reader-supplied
// HintPageOffsets map, splitting any page longer than max_chunk_size by
// paragraph. Readers that have no real page
// concept (plain text, markdown) leave the hint unset, in which case this
// falls back to Paragraph across the whole document.
func chunkPageLevel(text string, raw schema.RawContent, opts ChunkingOptions) ([]Candidate, error) {
	offsets, ok := raw.Hints[schema.HintPageOffsets].(map[int]int)
	if !ok || len(offsets) == 0 {
		return chunkParagraph(text, opts)
	}

	pages := make([]int, 0, len(offsets))
	for p := range offsets {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	var candidates []Candidate
	for i, p := range pages {
		start := offsets[p]
		end := len(text)
		if i+1 < len(pages) {
			end = offsets[pages[i+1]]
		}
		if start < 0 || start >= end || start > len(text) {
			continue
		}
		if end > len(text) {
			end = len(text)
		}

		content := text[start:end]
		if len(content) > opts.MaxChunkSize {
			sub, err := chunkParagraph(content, opts)
			if err != nil {
				return nil, err
			}
			for _, c := range sub {
				c.StartChar += start
				c.EndChar += start
				candidates = append(candidates, c)
			}
			continue
		}
		if len(content) == 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			Content:   content,
			StartChar: start,
			EndChar:   end,
			TokensEst: estimateTokens(content),
		})
	}
	return candidates, nil
}
