package capability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTextCompletionReturnsScriptedResponse(t *testing.T) {
	m := NewMockTextCompletion("hello")
	got, err := m.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestMockTextCompletionReturnsScriptedError(t *testing.T) {
	m := NewMockTextCompletionWithError(errors.New("boom"))
	_, err := m.Complete(context.Background(), "prompt")
	assert.Error(t, err)

	_, err = m.AssessQuality(context.Background(), "chunk", "header")
	assert.Error(t, err)
}

func TestMockEmbeddingBatchRepeatsVector(t *testing.T) {
	vec := []float32{0.1, 0.2, 0.3}
	m := NewMockEmbedding(vec)
	out, err := m.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, vec, out[0])
	assert.Equal(t, 3, m.Dimensions())
}

func TestMockImageToTextSniffsTypeWhenUnset(t *testing.T) {
	m := NewMockImageToText(ImageToTextResult{ExtractedText: "caption"})
	res, err := m.ExtractText(context.Background(), []byte{0x89, 0x50, 0x4E, 0x47, 0x00})
	require.NoError(t, err)
	assert.Equal(t, ImageTypePNG, res.ImageType)
	assert.Equal(t, "caption", res.ExtractedText)
}

func TestSniffImageType(t *testing.T) {
	assert.Equal(t, ImageTypePNG, SniffImageType([]byte{0x89, 0x50, 0x4E, 0x47}))
	assert.Equal(t, ImageTypeJPEG, SniffImageType([]byte{0xFF, 0xD8, 0xFF}))
	assert.Equal(t, ImageTypeGIF, SniffImageType([]byte{0x47, 0x49, 0x46}))
	webp := append([]byte("RIFF\x00\x00\x00\x00"), []byte("WEBP")...)
	assert.Equal(t, ImageTypeWebP, SniffImageType(webp))
	assert.Equal(t, ImageTypeUnknown, SniffImageType(nil))
	assert.Equal(t, ImageTypeJPEG, SniffImageType([]byte{0x01, 0x02}))
}

func TestExtractJSONStripsSurroundingProse(t *testing.T) {
	raw := "Sure, here you go:\n```json\n{\"keep\": true}\n```\nHope that helps."
	assert.Equal(t, `{"keep": true}`, extractJSON(raw))
}
