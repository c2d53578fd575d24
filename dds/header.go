package dds

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	magic           = "DDS "
	headerSize      = 124
	pixelFormatSize = 32

	// largest edge accepted before any pixel memory is allocated
	maxDimension = 1 << 15

	flagCaps        = 0x1
	flagHeight      = 0x2
	flagWidth       = 0x4
	flagPixelFormat = 0x1000
	flagMipMapCount = 0x20000

	requiredFlags = flagCaps | flagHeight | flagWidth | flagPixelFormat

	pfAlphaPixels = 0x1
	pfAlpha       = 0x2
	pfFourCC      = 0x4
	pfRGB         = 0x40
	pfLuminance   = 0x20000
)

// Fields are exported so binary.Read can fill them.
type pixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

type header struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       pixelFormat
	Caps              [4]uint32
	Reserved2         uint32
}

type dx10Header struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// DXGI formats the decoder knows about.
const (
	dxgiR8G8B8A8Typeless = 27
	dxgiR8G8B8A8UNorm    = 28
	dxgiR8G8B8A8SRGB     = 29
	dxgiBC1Typeless      = 70
	dxgiBC1UNorm         = 71
	dxgiBC1SRGB          = 72
	dxgiBC2Typeless      = 73
	dxgiBC2UNorm         = 74
	dxgiBC2SRGB          = 75
	dxgiBC3Typeless      = 76
	dxgiBC3UNorm         = 77
	dxgiBC3SRGB          = 78
	dxgiB8G8R8A8UNorm    = 87
	dxgiB8G8R8X8UNorm    = 88
	dxgiB8G8R8A8SRGB     = 91
	dxgiB8G8R8X8SRGB     = 93
	dxgiBC7Typeless      = 97
	dxgiBC7UNorm         = 98
	dxgiBC7SRGB          = 99
)

func fourCC(s string) uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

func fourCCString(v uint32) string {
	b := []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return ""
		}
	}
	return string(b)
}

var (
	fourCCDXT1 = fourCC("DXT1")
	fourCCDXT2 = fourCC("DXT2")
	fourCCDXT3 = fourCC("DXT3")
	fourCCDXT4 = fourCC("DXT4")
	fourCCDXT5 = fourCC("DXT5")
	fourCCDX10 = fourCC("DX10")
)

func readHeader(r io.Reader) (header, *dx10Header, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return header{}, nil, errors.Wrap(ErrInvalidHeader, "reading magic")
	}
	if string(m[:]) != magic {
		return header{}, nil, errors.Wrapf(ErrInvalidHeader, "magic is %q", m[:])
	}

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return header{}, nil, errors.Wrap(ErrInvalidHeader, "reading header")
	}

	if h.Size != headerSize {
		return header{}, nil, errors.Wrapf(ErrInvalidHeader, "header size %d, expected %d", h.Size, headerSize)
	}
	// Some writers skip DDSD_PITCH/DDSD_LINEARSIZE, only the basics are required.
	if h.Flags&requiredFlags != requiredFlags {
		return header{}, nil, errors.Wrapf(ErrInvalidHeader, "flags %#x are missing %#x", h.Flags, requiredFlags)
	}
	if h.PixelFormat.Size != pixelFormatSize {
		return header{}, nil, errors.Wrapf(ErrInvalidHeader, "pixel format size %d, expected %d", h.PixelFormat.Size, pixelFormatSize)
	}
	if h.Width == 0 || h.Height == 0 || h.Width > maxDimension || h.Height > maxDimension {
		return header{}, nil, errors.Wrapf(ErrInvalidHeader, "dimensions %dx%d", h.Width, h.Height)
	}

	if h.PixelFormat.Flags&pfFourCC == 0 || h.PixelFormat.FourCC != fourCCDX10 {
		return h, nil, nil
	}

	var ext dx10Header
	if err := binary.Read(r, binary.LittleEndian, &ext); err != nil {
		return header{}, nil, errors.Wrap(ErrInvalidHeader, "reading DX10 header")
	}
	return h, &ext, nil
}

// layout describes how the top-level surface is stored in the file.
type layout struct {
	format        Format
	bytesPerPixel int
	bitsPerPixel  int
	r, g, b, a    channelMask
}

func maskLayout(f Format, bitCount, r, g, b, a uint32) layout {
	return layout{
		format:        f,
		bytesPerPixel: int(bitCount / 8),
		bitsPerPixel:  int(bitCount),
		r:             newChannelMask(r),
		g:             newChannelMask(g),
		b:             newChannelMask(b),
		a:             newChannelMask(a),
	}
}

func blockLayout(f Format) layout {
	return layout{format: f, bitsPerPixel: 32}
}

func blockBytes(f Format) int {
	if f == FormatDXT1 {
		return 8
	}
	return 16
}

// surfaceSize is the number of payload bytes a w x h top-level surface
// occupies in the file.
func (l layout) surfaceSize(w, h int) int64 {
	if l.format.Compressed() {
		return int64((w+3)/4) * int64((h+3)/4) * int64(blockBytes(l.format))
	}
	return int64(w) * int64(h) * int64(l.bytesPerPixel)
}

// headerBytes counts the magic, the header and the DX10 extension if any.
func headerBytes(ext *dx10Header) int64 {
	n := int64(len(magic) + headerSize)
	if ext != nil {
		n += int64(binary.Size(dx10Header{}))
	}
	return n
}

func resolveLayout(h header, ext *dx10Header) (layout, error) {
	pf := h.PixelFormat

	if ext != nil {
		return resolveDXGI(ext.DXGIFormat)
	}

	if pf.Flags&pfFourCC != 0 {
		switch pf.FourCC {
		case fourCCDXT1:
			return blockLayout(FormatDXT1), nil
		case fourCCDXT2, fourCCDXT3:
			return blockLayout(FormatDXT3), nil
		case fourCCDXT4, fourCCDXT5:
			return blockLayout(FormatDXT5), nil
		}
		name := fourCCString(pf.FourCC)
		if name == "" {
			return layout{}, errors.Wrapf(ErrUnsupportedCompression, "format code %d", pf.FourCC)
		}
		return layout{}, errors.Wrapf(ErrUnsupportedCompression, "%s", name)
	}

	if pf.RGBBitCount == 0 || pf.RGBBitCount%8 != 0 || pf.RGBBitCount > 32 {
		return layout{}, errors.Wrapf(ErrInvalidHeader, "unsupported bit count %d", pf.RGBBitCount)
	}

	aMask := uint32(0)
	if pf.Flags&(pfAlphaPixels|pfAlpha) != 0 {
		aMask = pf.ABitMask
	}

	switch {
	case pf.Flags&pfRGB != 0:
		return maskLayout(FormatRGB, pf.RGBBitCount, pf.RBitMask, pf.GBitMask, pf.BBitMask, aMask), nil
	case pf.Flags&pfLuminance != 0:
		return maskLayout(FormatLuminance, pf.RGBBitCount, pf.RBitMask, pf.RBitMask, pf.RBitMask, aMask), nil
	case pf.Flags&pfAlpha != 0:
		return maskLayout(FormatAlpha, pf.RGBBitCount, 0, 0, 0, aMask), nil
	}
	return layout{}, errors.Wrapf(ErrInvalidHeader, "unsupported pixel format flags %#x", pf.Flags)
}

func resolveDXGI(f uint32) (layout, error) {
	switch f {
	case dxgiBC1Typeless, dxgiBC1UNorm, dxgiBC1SRGB:
		return blockLayout(FormatDXT1), nil
	case dxgiBC2Typeless, dxgiBC2UNorm, dxgiBC2SRGB:
		return blockLayout(FormatDXT3), nil
	case dxgiBC3Typeless, dxgiBC3UNorm, dxgiBC3SRGB:
		return blockLayout(FormatDXT5), nil
	case dxgiR8G8B8A8Typeless, dxgiR8G8B8A8UNorm, dxgiR8G8B8A8SRGB:
		return maskLayout(FormatRGB, 32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000), nil
	case dxgiB8G8R8A8UNorm, dxgiB8G8R8A8SRGB:
		return maskLayout(FormatRGB, 32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0xff000000), nil
	case dxgiB8G8R8X8UNorm, dxgiB8G8R8X8SRGB:
		return maskLayout(FormatRGB, 32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0), nil
	case dxgiBC7Typeless, dxgiBC7UNorm, dxgiBC7SRGB:
		return layout{}, errors.Wrap(ErrUnsupportedCompression, "BC7")
	}
	return layout{}, errors.Wrapf(ErrUnsupportedCompression, "DXGI format %d", f)
}
