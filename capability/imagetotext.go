package capability

import (
	"bytes"
	"context"
)

// ImageType identifies the media type sniffed from an image's magic bytes.
type ImageType string

const (
	ImageTypePNG     ImageType = "png"
	ImageTypeJPEG    ImageType = "jpeg"
	ImageTypeGIF     ImageType = "gif"
	ImageTypeWebP    ImageType = "webp"
	ImageTypeUnknown ImageType = "unknown"
)

// ImageToTextResult is the outcome of extracting text from an image,
// typically via OCR or a vision-capable model.
type ImageToTextResult struct {
	ExtractedText    string
	Confidence       float64
	DetectedLanguage string
	ImageType        ImageType
	ProcessingTimeMs int64
	Metadata         map[string]string
	ErrorMessage     string
}

// ImageToText is the optional OCR / vision collaborator used by the
// refiner to caption embedded images.
type ImageToText interface {
	ExtractText(ctx context.Context, imageBytes []byte) (ImageToTextResult, error)
}

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	gifMagic  = []byte{0x47, 0x49, 0x46}
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
)

// SniffImageType infers the media type from magic bytes, defaulting to
// JPEG when non-empty data matches nothing; empty data is ImageTypeUnknown.
func SniffImageType(data []byte) ImageType {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return ImageTypePNG
	case bytes.HasPrefix(data, jpegMagic):
		return ImageTypeJPEG
	case bytes.HasPrefix(data, gifMagic):
		return ImageTypeGIF
	case len(data) >= 12 && bytes.HasPrefix(data, riffMagic) && bytes.Equal(data[8:12], webpMagic):
		return ImageTypeWebP
	case len(data) == 0:
		return ImageTypeUnknown
	default:
		return ImageTypeJPEG
	}
}
