package tokenizer

import (
	"fmt"
	"regexp"

	"github.com/neurosnap/sentences"
)

// SentenceSegmenter splits text into sentences.
type SentenceSegmenter interface {
	Segment(text string) []string
}

// defaultSentenceRegex splits on sentence-terminal punctuation while
// keeping the terminator attached.
var defaultSentenceRegex = regexp.MustCompile(`[^.!?]+[.!?]+(?:\s+|$)|[^.!?]+$`)

// RegexSegmenter is the deterministic fallback sentence segmenter used
// when no trained sentence model is available.
type RegexSegmenter struct {
	re *regexp.Regexp
}

// NewRegexSegmenter creates a RegexSegmenter. An empty pattern defaults to
// punctuation-based splitting.
func NewRegexSegmenter(pattern string) *RegexSegmenter {
	re := defaultSentenceRegex
	if pattern != "" {
		re = regexp.MustCompile(pattern)
	}
	return &RegexSegmenter{re: re}
}

// Segment splits text by the configured regex.
func (s *RegexSegmenter) Segment(text string) []string {
	return s.re.FindAllString(text, -1)
}

// NeurosnapSegmenter uses a trained Punkt-style model for sentence
// boundary detection, far more accurate than regex splitting on
// abbreviations and decimal numbers.
type NeurosnapSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewNeurosnapSegmenter builds a segmenter from trained model data (e.g.
// an embedded or file-loaded language training corpus). Callers without
// training data should use NewRegexSegmenter instead.
func NewNeurosnapSegmenter(trainingData []byte) (*NeurosnapSegmenter, error) {
	if len(trainingData) == 0 {
		return nil, fmt.Errorf("tokenizer: neurosnap segmenter requires non-empty training data")
	}
	storage, err := sentences.LoadTraining(trainingData)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: load sentence training data: %w", err)
	}
	return &NeurosnapSegmenter{tokenizer: sentences.NewSentenceTokenizer(storage)}, nil
}

// Segment splits text into sentences using the trained model.
func (s *NeurosnapSegmenter) Segment(text string) []string {
	sents := s.tokenizer.Tokenize(text)
	out := make([]string, len(sents))
	for i, sent := range sents {
		out[i] = sent.Text
	}
	return out
}
