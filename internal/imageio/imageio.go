// Package imageio decodes frames and enrollment images from untrusted bytes.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/constants"
)

// ErrUnsupportedType is returned for content that is not a png, jpeg or bmp image.
var ErrUnsupportedType = errors.New("unsupported image type")

// ErrTooManyPixels is returned for images whose header declares more than
// constants.MaxImagePixels pixels.
var ErrTooManyPixels = errors.New("image dimensions too large")

var supported = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/bmp":  {},
}

// Sniff returns the MIME type of data, or ErrUnsupportedType.
func Sniff(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("sniffing content: %w", err)
	}
	if _, ok := supported[kind.MIME.Value]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, kind.MIME.Value)
	}
	return kind.MIME.Value, nil
}

// Decode sniffs and decodes an image. The header is read first and images
// larger than constants.MaxImagePixels are rejected without decoding.
func Decode(data []byte) (image.Image, error) {
	if _, err := Sniff(data); err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("failed to decode image: empty %dx%d image", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > constants.MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ReadFile reads and decodes the image at path.
func ReadFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// WritePNG encodes img as a png file at path.
func WritePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // enrollment images are not secret
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// EncodePNG returns img as png bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
