// Package tga reads and writes uncompressed Truevision Targa images.
package tga

import (
	"bufio"
	"encoding/binary"
	"image"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

const (
	headerLen = 18

	typeTrueColor = 2
	typeGrayscale = 3

	// image descriptor bits
	descTopOrigin  = 0x20
	descRightFirst = 0x10
	descAlphaMask  = 0x0f
)

// ErrUnsupported is returned by Decode for anything other than an
// uncompressed true-color or grayscale image.
var ErrUnsupported = errors.New("tga: unsupported image")

func writeHeader(w io.Writer, imageType, width, height, depth int, desc byte) error {
	if width > 0xffff || height > 0xffff {
		return errors.Errorf("tga: %dx%d exceeds the format limit", width, height)
	}

	var h [headerLen]byte
	h[2] = byte(imageType)
	binary.LittleEndian.PutUint16(h[12:], uint16(width))
	binary.LittleEndian.PutUint16(h[14:], uint16(height))
	h[16] = byte(depth)
	h[17] = desc
	_, err := w.Write(h[:])
	return err
}

// Encode writes m as an uncompressed Targa image with a top-left origin.
// A *image.Gray is stored as 8-bit grayscale, everything else as 24-bit BGR
// with alpha dropped.
func Encode(w io.Writer, m image.Image) error {
	bw := bufio.NewWriter(w)
	b := m.Bounds()

	var err error
	if g, ok := m.(*image.Gray); ok {
		err = encodeGray(bw, g)
	} else {
		err = encodeRGB(bw, m)
	}
	if err != nil {
		return errors.Wrapf(err, "tga: encoding %dx%d image", b.Dx(), b.Dy())
	}
	return bw.Flush()
}

func encodeGray(w io.Writer, g *image.Gray) error {
	b := g.Bounds()
	if err := writeHeader(w, typeGrayscale, b.Dx(), b.Dy(), 8, descTopOrigin); err != nil {
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		o := g.PixOffset(b.Min.X, y)
		if _, err := w.Write(g.Pix[o : o+b.Dx()]); err != nil {
			return err
		}
	}
	return nil
}

func encodeRGB(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if err := writeHeader(w, typeTrueColor, b.Dx(), b.Dy(), 24, descTopOrigin); err != nil {
		return err
	}

	src, ok := m.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(b)
		draw.Draw(src, b, m, b.Min, draw.Src)
	}

	row := make([]byte, b.Dx()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		pix := src.Pix[src.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			row[x*3+0] = pix[x*4+2]
			row[x*3+1] = pix[x*4+1]
			row[x*3+2] = pix[x*4+0]
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads an uncompressed 8-bit grayscale or 24/32-bit true-color image.
// Grayscale images decode to *image.Gray, true-color ones to *image.NRGBA.
func Decode(r io.Reader) (image.Image, error) {
	var h [headerLen]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return nil, errors.Wrap(err, "tga: reading header")
	}

	idLen := int(h[0])
	colorMapType := h[1]
	imageType := h[2]
	width := int(binary.LittleEndian.Uint16(h[12:]))
	height := int(binary.LittleEndian.Uint16(h[14:]))
	depth := int(h[16])
	desc := h[17]

	if colorMapType != 0 {
		return nil, errors.Wrap(ErrUnsupported, "color mapped")
	}
	if desc&descRightFirst != 0 {
		return nil, errors.Wrap(ErrUnsupported, "right-to-left pixel order")
	}
	if idLen > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(idLen)); err != nil {
			return nil, errors.Wrap(err, "tga: skipping image id")
		}
	}

	var (
		img    image.Image
		pix    []byte
		stride int
		bpp    int
	)
	switch {
	case imageType == typeGrayscale && depth == 8:
		g := image.NewGray(image.Rect(0, 0, width, height))
		img, pix, stride, bpp = g, g.Pix, g.Stride, 1
	case imageType == typeTrueColor && (depth == 24 || depth == 32):
		n := image.NewNRGBA(image.Rect(0, 0, width, height))
		img, pix, stride, bpp = n, n.Pix, n.Stride, depth/8
	default:
		return nil, errors.Wrapf(ErrUnsupported, "type %d with %d bits", imageType, depth)
	}

	row := make([]byte, width*bpp)
	for i := 0; i < height; i++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, errors.Wrapf(err, "tga: reading row %d", i)
		}
		y := i
		if desc&descTopOrigin == 0 {
			y = height - 1 - i
		}
		dst := pix[y*stride:]
		if bpp == 1 {
			copy(dst, row)
			continue
		}
		for x := 0; x < width; x++ {
			s := row[x*bpp:]
			dst[x*4+0] = s[2]
			dst[x*4+1] = s[1]
			dst[x*4+2] = s[0]
			if bpp == 4 && desc&descAlphaMask != 0 {
				dst[x*4+3] = s[3]
			} else {
				dst[x*4+3] = 0xff
			}
		}
	}
	return img, nil
}

// Depth returns the bits per pixel recorded in a Targa header.
func Depth(r io.Reader) (int, error) {
	var h [headerLen]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return 0, errors.Wrap(err, "tga: reading header")
	}
	return int(h[16]), nil
}
