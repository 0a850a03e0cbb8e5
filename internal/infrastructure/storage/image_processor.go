package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	// MaxImageSize caps uploaded image attachments at 5MB.
	MaxImageSize = 5 * 1024 * 1024

	// ThumbnailSize is the bounding box for generated thumbnails.
	ThumbnailSize = 300

	jpegQuality = 90
)

// ImageProcessor validates image uploads and produces the thumbnail
// variant stored alongside the original attachment.
type ImageProcessor struct{}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

// ValidateImage checks size and decodability without reading the full
// pixel data. Only JPEG and PNG are accepted as image attachments.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("image is empty")
	}
	if len(data) > MaxImageSize {
		return fmt.Errorf("image exceeds maximum size of %d bytes", MaxImageSize)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid image data: %w", err)
	}

	if format != "jpeg" && format != "png" {
		return fmt.Errorf("unsupported image format %q, only jpeg and png are allowed", format)
	}

	return nil
}

// Thumbnail scales the image to fit within ThumbnailSize x ThumbnailSize
// and re-encodes it as JPEG.
func (p *ImageProcessor) Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
