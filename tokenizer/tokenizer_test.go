package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleTokenizerCountsWords(t *testing.T) {
	tok := NewSimpleTokenizer()
	assert.Equal(t, 3, len(tok.Encode("one two three")))
	assert.Equal(t, 0, len(tok.Encode("")))
}

func TestRegexSegmenterSplitsOnTerminalPunctuation(t *testing.T) {
	seg := NewRegexSegmenter("")
	sents := seg.Segment("Hello world. How are you? Fine!")
	assert.Len(t, sents, 3)
}

func TestNeurosnapSegmenterRequiresTrainingData(t *testing.T) {
	_, err := NewNeurosnapSegmenter(nil)
	assert.Error(t, err)
}

func TestTikTokenTokenizerDefaultsToCL100k(t *testing.T) {
	tok, err := NewTikTokenTokenizer("")
	if err != nil {
		t.Skipf("tiktoken vocabulary unavailable in this environment: %v", err)
	}
	assert.Equal(t, EncodingCL100kBase, tok.EncodingName())
	assert.Greater(t, tok.CountTokens("hello world"), 0)
}
