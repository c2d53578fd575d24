package dds

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/pkg/errors"
)

// expandBits scales an n-bit channel value to 8 bits, rounding to nearest.
func expandBits(c uint32, n uint) uint8 {
	top := uint32(1)<<n - 1
	return uint8((c*255 + top/2) / top)
}

func rgb565(c uint16) (r, g, b uint8) {
	return expandBits(uint32(c>>11)&31, 5),
		expandBits(uint32(c>>5)&63, 6),
		expandBits(uint32(c)&31, 5)
}

// decodeColorBlock writes 16 RGBA texels into dst from an 8-byte color block.
// DXT1 blocks with c0 <= c1 use the three color plus transparent black mode;
// DXT3/5 color blocks always use the four color mode.
func decodeColorBlock(dst *[64]byte, src []byte, dxt1 bool) {
	c0 := binary.LittleEndian.Uint16(src[0:])
	c1 := binary.LittleEndian.Uint16(src[2:])
	indices := binary.LittleEndian.Uint32(src[4:])

	var palette [4][4]uint32
	r, g, b := rgb565(c0)
	palette[0] = [4]uint32{uint32(r), uint32(g), uint32(b), 255}
	r, g, b = rgb565(c1)
	palette[1] = [4]uint32{uint32(r), uint32(g), uint32(b), 255}

	p0, p1 := palette[0], palette[1]
	if !dxt1 || c0 > c1 {
		for i := 0; i < 3; i++ {
			palette[2][i] = (2*p0[i] + p1[i]) / 3
			palette[3][i] = (p0[i] + 2*p1[i]) / 3
		}
		palette[2][3] = 255
		palette[3][3] = 255
	} else {
		for i := 0; i < 3; i++ {
			palette[2][i] = (p0[i] + p1[i]) / 2
		}
		palette[2][3] = 255
		palette[3] = [4]uint32{0, 0, 0, 0}
	}

	for i := 0; i < 16; i++ {
		c := palette[(indices>>(2*uint(i)))&3]
		dst[i*4+0] = byte(c[0])
		dst[i*4+1] = byte(c[1])
		dst[i*4+2] = byte(c[2])
		dst[i*4+3] = byte(c[3])
	}
}

// decodeExplicitAlpha fills the alpha of dst from a DXT3 alpha block,
// four bits per texel.
func decodeExplicitAlpha(dst *[64]byte, src []byte) {
	bits := binary.LittleEndian.Uint64(src)
	for i := 0; i < 16; i++ {
		dst[i*4+3] = expandBits(uint32(bits>>(4*uint(i)))&15, 4)
	}
}

// decodeInterpolatedAlpha fills the alpha of dst from a DXT5 alpha block:
// two endpoints followed by 16 three-bit palette indices.
func decodeInterpolatedAlpha(dst *[64]byte, src []byte) {
	var palette [8]uint32
	a0, a1 := uint32(src[0]), uint32(src[1])
	palette[0], palette[1] = a0, a1

	if a0 > a1 {
		for i := uint32(1); i <= 6; i++ {
			palette[i+1] = ((7-i)*a0 + i*a1) / 7
		}
	} else {
		for i := uint32(1); i <= 4; i++ {
			palette[i+1] = ((5-i)*a0 + i*a1) / 5
		}
		palette[6] = 0
		palette[7] = 255
	}

	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(src[2+i]) << (8 * uint(i))
	}
	for i := 0; i < 16; i++ {
		dst[i*4+3] = byte(palette[(bits>>(3*uint(i)))&7])
	}
}

func (d *Decoder) decodeBlocks(r io.Reader, img *image.NRGBA, f Format) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	src := d.compressed[:blockBytes(f)]

	for by := 0; by < (h+3)/4; by++ {
		for bx := 0; bx < (w+3)/4; bx++ {
			if _, err := io.ReadFull(r, src); err != nil {
				return errors.Wrapf(err, "reading block %d,%d", bx, by)
			}

			switch f {
			case FormatDXT1:
				decodeColorBlock(&d.block, src, true)
			case FormatDXT3:
				decodeColorBlock(&d.block, src[8:], false)
				decodeExplicitAlpha(&d.block, src[:8])
			case FormatDXT5:
				decodeColorBlock(&d.block, src[8:], false)
				decodeInterpolatedAlpha(&d.block, src[:8])
			}

			// partial blocks on the right and bottom edges are clipped
			for py := 0; py < 4 && by*4+py < h; py++ {
				for px := 0; px < 4 && bx*4+px < w; px++ {
					o := img.PixOffset(bx*4+px, by*4+py)
					t := (py*4 + px) * 4
					copy(img.Pix[o:o+4], d.block[t:t+4])
				}
			}
		}
	}
	return nil
}
