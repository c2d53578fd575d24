// Package ddstest builds DDS byte streams for tests.
package ddstest

import (
	"bytes"
	"encoding/binary"
	"image"
	"os"
	"testing"
)

const (
	flagsTexture = 0x1 | 0x2 | 0x4 | 0x1000

	PFAlphaPixels = 0x1
	PFAlpha       = 0x2
	PFFourCC      = 0x4
	PFRGB         = 0x40
	PFLuminance   = 0x20000
)

// Header is the subset of DDS_HEADER fields tests need to vary.
type Header struct {
	Width, Height int
	MipMapCount   uint32

	PFFlags  uint32
	FourCC   string
	BitCount uint32
	RMask    uint32
	GMask    uint32
	BMask    uint32
	AMask    uint32

	// DXGIFormat is written as a DX10 extended header when FourCC is "DX10".
	DXGIFormat uint32
}

// Bytes encodes the magic, the header and the optional DX10 header.
func (h Header) Bytes() []byte {
	b := make([]byte, 4+124)
	copy(b, "DDS ")
	le := binary.LittleEndian
	hd := b[4:]

	flags := uint32(flagsTexture)
	if h.MipMapCount > 0 {
		flags |= 0x20000
	}
	le.PutUint32(hd[0:], 124)
	le.PutUint32(hd[4:], flags)
	le.PutUint32(hd[8:], uint32(h.Height))
	le.PutUint32(hd[12:], uint32(h.Width))
	le.PutUint32(hd[24:], h.MipMapCount)

	pf := hd[72:]
	le.PutUint32(pf[0:], 32)
	le.PutUint32(pf[4:], h.PFFlags)
	if len(h.FourCC) == 4 {
		copy(pf[8:12], h.FourCC)
	}
	le.PutUint32(pf[12:], h.BitCount)
	le.PutUint32(pf[16:], h.RMask)
	le.PutUint32(pf[20:], h.GMask)
	le.PutUint32(pf[24:], h.BMask)
	le.PutUint32(pf[28:], h.AMask)
	le.PutUint32(hd[104:], 0x1000)

	if h.FourCC == "DX10" {
		ext := make([]byte, 20)
		le.PutUint32(ext[0:], h.DXGIFormat)
		le.PutUint32(ext[4:], 3)
		le.PutUint32(ext[12:], 1)
		b = append(b, ext...)
	}
	return b
}

// Build concatenates a header and a payload.
func Build(h Header, payload []byte) []byte {
	return append(h.Bytes(), payload...)
}

// ARGB32 encodes img as an uncompressed A8R8G8B8 surface.
func ARGB32(img *image.NRGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	hd := Header{
		Width:    w,
		Height:   h,
		PFFlags:  PFRGB | PFAlphaPixels,
		BitCount: 32,
		RMask:    0x00ff0000,
		GMask:    0x0000ff00,
		BMask:    0x000000ff,
		AMask:    0xff000000,
	}

	var buf bytes.Buffer
	buf.Write(hd.Bytes())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.NRGBAAt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
			buf.Write([]byte{c.B, c.G, c.R, c.A})
		}
	}
	return buf.Bytes()
}

// RGB24 encodes img as an uncompressed R8G8B8 surface, dropping alpha.
func RGB24(img *image.NRGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	hd := Header{
		Width:    w,
		Height:   h,
		PFFlags:  PFRGB,
		BitCount: 24,
		RMask:    0x00ff0000,
		GMask:    0x0000ff00,
		BMask:    0x000000ff,
	}

	var buf bytes.Buffer
	buf.Write(hd.Bytes())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.NRGBAAt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
			buf.Write([]byte{c.B, c.G, c.R})
		}
	}
	return buf.Bytes()
}

// WriteFile writes data to path, failing the test on error.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
