// Package imaging normalizes uploaded location photos to WebP.
package imaging

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	MaxWidth       = 1600
	DefaultQuality = 80
	ContentType    = "image/webp"
)

var ErrUnsupportedImage = errors.New("unsupported image")

// ToWebP decodes a JPEG or PNG, scales it down to MaxWidth keeping the aspect
// ratio, and encodes it as lossy WebP.
func ToWebP(r io.Reader, quality float32) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	img = fit(img, MaxWidth)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fit(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
