package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvertChannel_Involution(t *testing.T) {
	for v := 0; v <= 255; v++ {
		assert.Equal(t, uint8(v), InvertChannel(InvertChannel(uint8(v))))
	}
}

func encodePNG(t *testing.T, img *image.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gradientImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 16),
				G: uint8(y * 16),
				B: uint8((x + y) * 8),
				A: uint8(255 - x), // varied alpha must survive untouched
			})
		}
	}
	return img
}

func TestInvert_InvertsChannelsAndKeepsAlpha(t *testing.T) {
	src := gradientImage()
	out, mimeType, err := Invert(encodePNG(t, src))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := src.NRGBAAt(x, y)
			got := color.NRGBAModel.Convert(decoded.At(x, y)).(color.NRGBA)
			assert.Equal(t, 255-want.R, got.R)
			assert.Equal(t, 255-want.G, got.G)
			assert.Equal(t, 255-want.B, got.B)
			assert.Equal(t, want.A, got.A, "alpha must be unchanged")
		}
	}
}

func TestInvert_TwiceRestoresOriginalPixels(t *testing.T) {
	src := gradientImage()

	once, _, err := Invert(encodePNG(t, src))
	require.NoError(t, err)
	twice, _, err := Invert(once)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(twice))
	require.NoError(t, err)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := src.NRGBAAt(x, y)
			got := color.NRGBAModel.Convert(decoded.At(x, y)).(color.NRGBA)
			assert.Equal(t, want, got)
		}
	}
}

func TestInvert_RejectsMalformedPayload(t *testing.T) {
	_, _, err := Invert([]byte("not an image at all"))
	assert.Error(t, err)
}
