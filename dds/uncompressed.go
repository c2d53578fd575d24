package dds

import (
	"image"
	"io"
	"math/bits"

	"github.com/pkg/errors"
)

type channelMask struct {
	mask  uint32
	shift uint
	width uint
}

func newChannelMask(m uint32) channelMask {
	if m == 0 {
		return channelMask{}
	}
	shift := uint(bits.TrailingZeros32(m))
	return channelMask{
		mask:  m,
		shift: shift,
		width: uint(bits.Len32(m >> shift)),
	}
}

func (c channelMask) present() bool {
	return c.mask != 0
}

func (c channelMask) value(px uint32) uint8 {
	v := (px & c.mask) >> c.shift
	if c.width >= 8 {
		return uint8(v >> (c.width - 8))
	}
	return expandBits(v, c.width)
}

func (d *Decoder) decodeUncompressed(r io.Reader, img *image.NRGBA, l layout) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	bpp := l.bytesPerPixel

	if cap(d.row) < w*bpp {
		d.row = make([]byte, w*bpp)
	}
	row := d.row[:w*bpp]

	for y := 0; y < h; y++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return errors.Wrapf(err, "reading row %d", y)
		}

		dst := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			var px uint32
			for i := 0; i < bpp; i++ {
				px |= uint32(row[x*bpp+i]) << (8 * uint(i))
			}

			o := x * 4
			if l.r.present() {
				dst[o+0] = l.r.value(px)
			}
			if l.g.present() {
				dst[o+1] = l.g.value(px)
			}
			if l.b.present() {
				dst[o+2] = l.b.value(px)
			}
			if l.a.present() {
				dst[o+3] = l.a.value(px)
			} else {
				dst[o+3] = 0xff
			}
		}
	}
	return nil
}
