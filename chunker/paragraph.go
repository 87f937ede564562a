package chunker

// chunkParagraph accumulates paragraphs until adding the next would exceed
// max_chunk_size; a single paragraph that itself exceeds max falls back to
// FixedSize within that paragraph.
func chunkParagraph(text string, opts ChunkingOptions) ([]Candidate, error) {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil, nil
	}

	var candidates []Candidate
	start := paragraphs[0].Start
	end := start

	flush := func() {
		if end > start {
			candidates = append(candidates, Candidate{
				Content:   text[start:end],
				StartChar: start,
				EndChar:   end,
				TokensEst: estimateTokens(text[start:end]),
			})
		}
	}

	for _, p := range paragraphs {
		if p.End-p.Start > opts.MaxChunkSize {
			flush()
			sub, err := chunkFixedSize(text[p.Start:p.End], opts)
			if err != nil {
				return nil, err
			}
			for _, c := range sub {
				c.StartChar += p.Start
				c.EndChar += p.Start
				candidates = append(candidates, c)
			}
			start = p.End
			end = p.End
			continue
		}

		if end > start && p.End-start > opts.MaxChunkSize {
			flush()
			start = p.Start
		}
		end = p.End
	}
	flush()

	return candidates, nil
}
