package chunker

import (
	"github.com/arborline/chunkforge/errkit"
	"github.com/arborline/chunkforge/schema"
)

// chunkFixedSize cuts text at max_chunk_size boundaries, never splitting
// mid-word, and extends to the next sentence terminator when one falls
// within 20% of the target size and preserve_sentences is set.
func chunkFixedSize(text string, opts ChunkingOptions) ([]Candidate, error) {
	if len(text) == 0 {
		return nil, nil
	}
	if opts.PreserveSentences && opts.MaxChunkSize < shortestSentenceLen(text) {
		return nil, errkit.New(schema.StageChunk, errkit.KindChunkingError, nil,
			"max_chunk_size %d is smaller than the shortest sentence with preserve_sentences enabled", opts.MaxChunkSize)
	}

	var candidates []Candidate
	pos := 0
	for pos < len(text) {
		end := pos + opts.MaxChunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = nearestWordBoundary(text, end)
			if end <= pos {
				end = pos + opts.MaxChunkSize
			}
			if opts.PreserveSentences {
				extended := extendToSentenceBoundary(text, end, int(float64(opts.MaxChunkSize)*0.2))
				if extended > end && extended <= len(text) {
					end = extended
				}
			}
		}

		candidates = append(candidates, Candidate{
			Content:   text[pos:end],
			StartChar: pos,
			EndChar:   end,
			TokensEst: estimateTokens(text[pos:end]),
		})
		pos = end
	}
	return candidates, nil
}

func shortestSentenceLen(text string) int {
	shortest := -1
	prev := 0
	for _, end := range sentenceEnds(text) {
		n := end - prev
		if n > 0 && (shortest == -1 || n < shortest) {
			shortest = n
		}
		prev = end
	}
	if shortest == -1 {
		return len(text)
	}
	return shortest
}
