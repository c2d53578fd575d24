package tga

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeGrayHeader(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 2))
	copy(g.Pix, []byte{1, 2, 3, 4, 5, 6})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g))

	out := buf.Bytes()
	require.Len(t, out, headerLen+6)
	assert.Equal(t, byte(typeGrayscale), out[2])
	assert.Equal(t, []byte{3, 0, 2, 0}, out[12:16])
	assert.Equal(t, byte(8), out[16])
	assert.Equal(t, byte(descTopOrigin), out[17])
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out[headerLen:])
}

func TestEncodeRGBWritesBGR(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 40, G: 50, B: 60, A: 255})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	out := buf.Bytes()
	require.Len(t, out, headerLen+6)
	assert.Equal(t, byte(typeTrueColor), out[2])
	assert.Equal(t, byte(24), out[16])
	assert.Equal(t, []byte{30, 20, 10, 60, 50, 40}, out[headerLen:])
}

func TestRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 7)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.IsType(t, &image.NRGBA{}, got)
	assert.Equal(t, img.Pix, got.(*image.NRGBA).Pix)
}

func TestEncodeGenericImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))
	assert.Equal(t, []byte{3, 2, 1}, buf.Bytes()[headerLen:])
}

func TestEncodePalettedSubImage(t *testing.T) {
	pal := color.Palette{color.NRGBA{R: 9, G: 8, B: 7, A: 255}, color.NRGBA{R: 1, G: 2, B: 3, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, 3, 1), pal)
	img.SetColorIndex(2, 0, 1)
	sub := img.SubImage(image.Rect(1, 0, 3, 1))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sub))
	assert.Equal(t, []byte{7, 8, 9, 3, 2, 1}, buf.Bytes()[headerLen:])
}

func TestDecodeBottomOrigin(t *testing.T) {
	data := []byte{
		0, 0, typeGrayscale, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		1, 0, 2, 0, 8, 0,
		0xaa, // bottom row first
		0xbb,
	}

	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	g := img.(*image.Gray)
	assert.Equal(t, uint8(0xbb), g.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0xaa), g.GrayAt(0, 1).Y)
}

func TestDecodeRejectsRLE(t *testing.T) {
	data := []byte{0, 0, 10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 24, 0x20}

	_, err := Decode(bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestDepth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))

	d, err := Depth(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, d)
}
