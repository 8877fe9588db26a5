package avatar

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

const (
	// whiteThreshold is the per-channel cutoff above which a pixel counts as
	// background. The generator is told to render on a fully white canvas.
	whiteThreshold = 250

	spriteWidth  = 71
	spriteHeight = 127
)

// DecodePNG parses raw PNG bytes into an image.
func DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}

// RemoveBackground turns near-white pixels fully transparent. A pixel is
// background when all three channels clear whiteThreshold.
func RemoveBackground(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R >= whiteThreshold && c.G >= whiteThreshold && c.B >= whiteThreshold {
				out.SetNRGBA(x, y, color.NRGBA{})
				continue
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// ResizeSprite scales the image to the in-game sprite dimensions using
// nearest-neighbor sampling, which keeps pixel edges hard.
func ResizeSprite(img image.Image) *image.NRGBA {
	return resizeNearest(img, spriteWidth, spriteHeight)
}

func resizeNearest(img image.Image, width, height int) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		srcY := bounds.Min.Y + y*bounds.Dy()/height
		for x := 0; x < width; x++ {
			srcX := bounds.Min.X + x*bounds.Dx()/width
			out.Set(x, y, img.At(srcX, srcY))
		}
	}
	return out
}

// EncodePNG renders an image back to PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
