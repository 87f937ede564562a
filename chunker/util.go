package chunker

import (
	"regexp"
	"strings"

	"github.com/arborline/chunkforge/tokenizer"
)

// paragraphBreakRegex splits text into paragraphs on one or more blank
// lines, matching the refiner's own paragraph notion.
var paragraphBreakRegex = regexp.MustCompile(`\n\s*\n+`)

// paragraphSpan is a paragraph's text and its byte offsets in the source.
type paragraphSpan struct {
	Text  string
	Start int
	End   int
}

// splitParagraphs returns the non-blank paragraphs of text with accurate
// byte offsets, so callers can build Candidate ranges directly.
func splitParagraphs(text string) []paragraphSpan {
	var spans []paragraphSpan
	offset := 0
	for _, part := range paragraphBreakRegex.Split(text, -1) {
		start := offset
		end := start + len(part)
		offset = end + paragraphSeparatorLenAt(text, end)
		if strings.TrimSpace(part) == "" {
			continue
		}
		spans = append(spans, paragraphSpan{Text: part, Start: start, End: end})
	}
	return spans
}

// paragraphSeparatorLenAt returns how many bytes of blank-line separator
// follow position end in text, so the next paragraph's offset skips it.
func paragraphSeparatorLenAt(text string, end int) int {
	if end >= len(text) {
		return 0
	}
	loc := paragraphBreakRegex.FindStringIndex(text[end:])
	if loc == nil || loc[0] != 0 {
		return 0
	}
	return loc[1] - loc[0]
}

// defaultSegmenter is shared by strategies needing sentence boundaries;
// it is stateless and safe for concurrent use.
var defaultSegmenter tokenizer.SentenceSegmenter = tokenizer.NewRegexSegmenter("")

// sentenceSpan is a sentence's text and its byte offsets in the source.
type sentenceSpan struct {
	Text  string
	Start int
	End   int
}

// sentenceSpans returns the sentences of text with accurate byte offsets,
// used by the Semantic strategy to build boundary-detector candidate
// pairs without losing track of character ranges.
func sentenceSpans(text string) []sentenceSpan {
	var spans []sentenceSpan
	offset := 0
	for _, s := range defaultSegmenter.Segment(text) {
		idx := strings.Index(text[offset:], s)
		if idx < 0 {
			continue
		}
		start := offset + idx
		end := start + len(s)
		spans = append(spans, sentenceSpan{Text: s, Start: start, End: end})
		offset = end
	}
	return spans
}

// sentenceEnds returns the byte offsets (relative to text) right after
// each sentence terminator, in ascending order.
func sentenceEnds(text string) []int {
	var ends []int
	offset := 0
	for _, s := range defaultSegmenter.Segment(text) {
		offset = strings.Index(text[offset:], s) + offset
		end := offset + len(s)
		ends = append(ends, end)
		offset = end
	}
	return ends
}

// nearestSentenceEnd returns the sentence-boundary offset in text closest
// to (and not exceeding, unless allowOver is set) target, falling back to
// target when no boundary is found within the text.
func nearestSentenceEnd(text string, target int, allowOver bool) int {
	best := -1
	for _, e := range sentenceEnds(text) {
		if e <= target {
			best = e
			continue
		}
		if allowOver {
			if best == -1 || target-best > e-target {
				best = e
			}
			break
		}
		break
	}
	if best == -1 {
		return target
	}
	return best
}

// nearestWordBoundary walks back from target to the nearest whitespace so
// a cut never splits mid-word; it never returns a value below 0.
func nearestWordBoundary(text string, target int) int {
	if target >= len(text) {
		return len(text)
	}
	for i := target; i > 0; i-- {
		if text[i-1] == ' ' || text[i-1] == '\n' || text[i-1] == '\t' {
			return i
		}
	}
	return target
}

// estimateTokens is the cheap estimate a Strategy attaches to a Candidate;
// the builder recomputes the authoritative count.
func estimateTokens(text string) int {
	return tokenizer.CountTokens(tokenizer.NewSimpleTokenizer(), text)
}

// extendToSentenceBoundary returns the first sentence-end offset strictly
// greater than cut and at most cut+maxExtend, or cut itself if none exists
// within that window (FixedSize's "within 20% of target" rule).
func extendToSentenceBoundary(text string, cut, maxExtend int) int {
	limit := cut + maxExtend
	for _, e := range sentenceEnds(text) {
		if e <= cut {
			continue
		}
		if e <= limit {
			return e
		}
		break
	}
	return cut
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
