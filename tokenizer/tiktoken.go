package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Encoding names supported by tiktoken-go.
const (
	EncodingCL100kBase = "cl100k_base" // GPT-4, GPT-3.5-turbo, text-embedding-ada-002
	EncodingO200kBase  = "o200k_base"  // GPT-4o family
)

// TikTokenTokenizer counts tokens against a real BPE vocabulary rather
// than an ad-hoc word count.
type TikTokenTokenizer struct {
	encoding     *tiktoken.Tiktoken
	encodingName string
}

// NewTikTokenTokenizer creates a tokenizer for the given encoding name.
// An empty name defaults to cl100k_base.
func NewTikTokenTokenizer(encodingName string) (*TikTokenTokenizer, error) {
	if encodingName == "" {
		encodingName = EncodingCL100kBase
	}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: get encoding %s: %w", encodingName, err)
	}
	return &TikTokenTokenizer{encoding: enc, encodingName: encodingName}, nil
}

// Encode returns the token IDs as strings, satisfying the Tokenizer
// interface; callers needing IDs should use EncodeToIDs instead.
func (t *TikTokenTokenizer) Encode(text string) []string {
	ids := t.encoding.Encode(text, nil, nil)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fmt.Sprintf("%d", id)
	}
	return out
}

// EncodeToIDs returns the raw token IDs.
func (t *TikTokenTokenizer) EncodeToIDs(text string) []int {
	return t.encoding.Encode(text, nil, nil)
}

// CountTokens returns the exact BPE token count for text.
func (t *TikTokenTokenizer) CountTokens(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// EncodingName returns the configured encoding.
func (t *TikTokenTokenizer) EncodingName() string { return t.encodingName }

var (
	defaultOnce sync.Once
	defaultTok  Tokenizer
	defaultErr  error
)

// Default returns a process-wide cl100k_base tokenizer, lazily
// initialized and safe for concurrent use. The chunk builder does not use
// it; chunk token counts come from SimpleTokenizer.
func Default() (Tokenizer, error) {
	defaultOnce.Do(func() {
		defaultTok, defaultErr = NewTikTokenTokenizer(EncodingCL100kBase)
	})
	return defaultTok, defaultErr
}
