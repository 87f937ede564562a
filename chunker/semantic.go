package chunker

import (
	"context"

	"github.com/arborline/chunkforge/boundary"
)

// chunkSemantic segments text into sentences, runs the boundary detector
// pairwise across them, and cuts whenever the detector reports a boundary
// at or above the configured confidence threshold, respecting max/min
// chunk sizes. detector may be nil, in which case
// a zero-value text-only detector is used.
func chunkSemantic(ctx context.Context, text string, opts ChunkingOptions, detector *boundary.Detector) ([]Candidate, error) {
	sentences := sentenceSpans(text)
	if len(sentences) == 0 {
		return nil, nil
	}
	if detector == nil {
		detector = boundary.NewDetector(nil, boundary.DefaultThreshold)
	}
	threshold := opts.StrategyOptions.ConfidenceThreshold
	if threshold <= 0 {
		threshold = 0.6
	}

	var candidates []Candidate
	start := sentences[0].Start
	flush := func(end int) {
		if end <= start {
			return
		}
		content := text[start:end]
		candidates = append(candidates, Candidate{
			Content:   content,
			StartChar: start,
			EndChar:   end,
			TokensEst: estimateTokens(content),
		})
	}

	for i := 0; i < len(sentences)-1; i++ {
		curEnd := sentences[i].End
		size := curEnd - start

		forced := size >= opts.MaxChunkSize
		var wantsCut bool
		if !forced {
			b, err := detector.Detect(ctx, sentences[i].Text, sentences[i+1].Text)
			if err != nil {
				return nil, err
			}
			wantsCut = b.IsBoundary && b.Confidence >= threshold
		}

		// A forced cut (past max_chunk_size) always takes effect; the
		// builder's min-size merge pass reconciles any undersized result
		// with its neighbor. A confidence-driven cut only takes effect
		// once the accumulated span clears min_chunk_size.
		if forced || (wantsCut && curEnd-start >= opts.MinChunkSize) {
			flush(curEnd)
			start = sentences[i+1].Start
		}
	}
	flush(sentences[len(sentences)-1].End)
	return candidates, nil
}
