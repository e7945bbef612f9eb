// Package imaging decodes uploaded photos in every format the API accepts.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedImage = errors.New("unsupported or corrupt image")
	ErrTooManyPixels    = errors.New("image dimensions too large")
)

// MaxPixels caps width×height so a small compressed file cannot expand into
// gigabytes of pixels on decode.
const MaxPixels = 40_000_000

// Formats lists the accepted encodings as reported by image.Decode.
var Formats = []string{"jpeg", "png", "gif", "webp", "bmp", "tiff"}

// DecodeConfig reads only the header, returning the format and dimensions.
func DecodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return image.Config{}, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, MaxPixels)
	}
	return cfg, format, nil
}

// Decode fully decodes data after DecodeConfig accepted its header.
func Decode(data []byte) (image.Image, string, error) {
	if _, _, err := DecodeConfig(data); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, format, nil
}

// IsUniform reports whether every pixel of img has the same colour.
func IsUniform(img image.Image) bool {
	b := img.Bounds()
	if b.Empty() {
		return true
	}

	first := color.NRGBAModel.Convert(img.At(b.Min.X, b.Min.Y))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.NRGBAModel.Convert(img.At(x, y)) != first {
				return false
			}
		}
	}
	return true
}

// Pixels returns the image as tightly packed 8-bit RGBA, independent of the
// source encoding.
func Pixels(img image.Image) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out = append(out, c.R, c.G, c.B, c.A)
		}
	}
	return out
}
