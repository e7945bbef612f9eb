// Package testutil builds synthetic photos for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"math/rand"
)

// FacePNG returns a PNG with a deterministic pattern derived from seed.
// Different seeds give different pixels.
func FacePNG(seed byte) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{
				R: byte(x*16) ^ seed,
				G: byte(y*16) + seed,
				B: byte(x*y) ^ (seed * 7),
				A: 255,
			})
		}
	}
	return encode(img)
}

// BlankPNG returns a single-colour PNG, which the mock provider treats as
// having no face.
func BlankPNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 240, 240, 240, 255
	}
	return encode(img)
}

// NoisePNG returns a size×size PNG of seeded random pixels. Noise barely
// compresses, so the encoded size grows with size² (about 4 bytes per pixel).
func NoisePNG(size int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	_, _ = rng.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return encode(img)
}

// PNGHeader returns only the signature and IHDR chunk of a PNG declaring
// width×height. Header parsing succeeds while a full decode fails.
func PNGHeader(width, height uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func encode(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
