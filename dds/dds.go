// Package dds decodes DirectDraw Surface textures into NRGBA images.
//
// Block-compressed DXT1 through DXT5 (BC1-BC3), uncompressed RGB, luminance
// and alpha surfaces with arbitrary channel masks, and the DX10 extended
// header for the same encodings are supported. Only the top-level image of
// the first surface is decoded; mipmaps and extra cubemap faces are ignored.
//
// Importing the package registers the format with the image package.
package dds

import (
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidHeader is returned when the stream is not a well formed DDS file.
	ErrInvalidHeader = errors.New("dds: invalid header")
	// ErrUnsupportedCompression is returned for pixel encodings the decoder
	// cannot read, BC7 among them.
	ErrUnsupportedCompression = errors.New("dds: unsupported compression")
	// ErrTruncated is returned when the stream is shorter than the surface
	// its header describes.
	ErrTruncated = errors.New("dds: truncated surface")
)

func init() {
	image.RegisterFormat("dds", magic, decodeImage, DecodeConfig)
}

// Format is the storage encoding of a decoded surface.
type Format int

const (
	FormatRGB Format = iota
	FormatLuminance
	FormatAlpha
	FormatDXT1
	FormatDXT3
	FormatDXT5
)

func (f Format) String() string {
	switch f {
	case FormatRGB:
		return "RGB"
	case FormatLuminance:
		return "Luminance"
	case FormatAlpha:
		return "Alpha"
	case FormatDXT1:
		return "DXT1"
	case FormatDXT3:
		return "DXT3"
	case FormatDXT5:
		return "DXT5"
	}
	return "unknown"
}

// Compressed reports whether the format is block compressed.
func (f Format) Compressed() bool {
	return f == FormatDXT1 || f == FormatDXT3 || f == FormatDXT5
}

type Info struct {
	Width  int
	Height int
	// BitsPerPixel is the stored depth for uncompressed surfaces and the
	// decoded depth (32) for block-compressed ones.
	BitsPerPixel int
	MipMapCount  int
	Format       Format
	// HasAlpha reports whether the surface stores an alpha channel.
	// Block-compressed surfaces always do.
	HasAlpha bool
}

// Texture is a decoded surface. Image is fully opaque when HasAlpha is false.
type Texture struct {
	Info
	Image *image.NRGBA
}

// Decoder keeps scratch buffers between files so a batch does not allocate
// per block. A Decoder is not safe for concurrent use.
type Decoder struct {
	block      [64]byte
	compressed [16]byte
	row        []byte
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode reads one DDS file from r using a fresh Decoder.
func Decode(r io.Reader) (*Texture, error) {
	return NewDecoder().Decode(r)
}

func decodeImage(r io.Reader) (image.Image, error) {
	tex, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return tex.Image, nil
}

// DecodeConfig returns the dimensions of the top-level surface without
// decoding pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, ext, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	if _, err := resolveLayout(h, ext); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// Decode reads one DDS file from r. When r reports its remaining length,
// as *bytes.Reader does, a surface larger than what is left fails with
// ErrTruncated before pixel memory is allocated.
func (d *Decoder) Decode(r io.Reader) (*Texture, error) {
	return d.decode(r, -1)
}

// DecodeSized is Decode for a stream whose total length in bytes is known,
// such as a file.
func (d *Decoder) DecodeSized(r io.Reader, size int64) (*Texture, error) {
	return d.decode(r, size)
}

func (d *Decoder) decode(r io.Reader, size int64) (*Texture, error) {
	h, ext, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	l, err := resolveLayout(h, ext)
	if err != nil {
		return nil, err
	}

	if size < 0 {
		if lr, ok := r.(interface{ Len() int }); ok {
			size = headerBytes(ext) + int64(lr.Len())
		}
	}
	if size >= 0 {
		need := headerBytes(ext) + l.surfaceSize(int(h.Width), int(h.Height))
		if size < need {
			return nil, errors.Wrapf(ErrTruncated, "%dx%d %s surface needs %d bytes, got %d",
				h.Width, h.Height, l.format, need, size)
		}
	}

	tex := &Texture{
		Info: Info{
			Width:        int(h.Width),
			Height:       int(h.Height),
			BitsPerPixel: l.bitsPerPixel,
			MipMapCount:  1,
			Format:       l.format,
			HasAlpha:     l.format.Compressed() || l.a.present(),
		},
		Image: image.NewNRGBA(image.Rect(0, 0, int(h.Width), int(h.Height))),
	}
	if h.Flags&flagMipMapCount != 0 && h.MipMapCount > 1 {
		tex.MipMapCount = int(h.MipMapCount)
	}

	if l.format.Compressed() {
		err = d.decodeBlocks(r, tex.Image, l.format)
	} else {
		err = d.decodeUncompressed(r, tex.Image, l)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s surface", l.format)
	}
	return tex, nil
}
