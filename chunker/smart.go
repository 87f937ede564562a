package chunker

import "strings"

// chunkSmart behaves like Paragraph but enforces a per-chunk completeness
// floor of 0.7: any candidate that would fall below it is extended to the
// next sentence boundary, up to 1.5x max_chunk_size, and then accepted
// as-is if the floor still isn't cleared.
func chunkSmart(text string, opts ChunkingOptions) ([]Candidate, error) {
	base, err := chunkParagraph(text, opts)
	if err != nil {
		return nil, err
	}

	limit := int(float64(opts.MaxChunkSize) * 1.5)
	out := make([]Candidate, 0, len(base))
	for _, c := range base {
		end := c.EndChar
		for end-c.StartChar < limit && smartCompleteness(text[c.StartChar:end]) < 0.7 {
			next := extendToSentenceBoundary(text, end, limit-(end-c.StartChar))
			if next <= end {
				break
			}
			end = next
		}
		content := text[c.StartChar:end]
		out = append(out, Candidate{
			Content:   content,
			StartChar: c.StartChar,
			EndChar:   end,
			TokensEst: estimateTokens(content),
		})
	}
	return out, nil
}

// smartCompleteness is the unfloored fraction of well-formed sentences
// (>10 chars, not terminated by an ellipsis), used only to decide whether
// Smart should extend a candidate. The enricher's exported
// CompletenessScore applies a 0.7 floor to the value it records on the
// finished chunk; that floor would make this decision a no-op, so Smart
// keeps its own unfloored copy of the same heuristic.
func smartCompleteness(content string) float64 {
	var sentences []string
	var sb strings.Builder
	for _, r := range content {
		sb.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentences = append(sentences, sb.String())
			sb.Reset()
		}
	}
	if sb.Len() > 0 && strings.TrimSpace(sb.String()) != "" {
		sentences = append(sentences, sb.String())
	}
	if len(sentences) == 0 {
		return 0
	}
	wellFormed := 0
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) > 10 && !strings.HasSuffix(s, "…") && !strings.HasSuffix(s, "...") {
			wellFormed++
		}
	}
	return float64(wellFormed) / float64(len(sentences))
}
