package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

const jpegQuality = 95

// InvertChannel inverts a single 8-bit color channel value.
func InvertChannel(v uint8) uint8 {
	return 255 - v
}

// Invert decodes a raster image, inverts the red, green and blue channel of
// every pixel (alpha is left untouched) and re-encodes it in the source
// format. This turns a film negative into a positive.
// Returns the encoded bytes and their MIME type.
func Invert(src []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			c.R = InvertChannel(c.R)
			c.G = InvertChannel(c.G)
			c.B = InvertChannel(c.B)
			out.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", fmt.Errorf("failed to encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	default:
		// PNG keeps the transform lossless for everything else we decode.
		if err := png.Encode(&buf, out); err != nil {
			return nil, "", fmt.Errorf("failed to encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
}
