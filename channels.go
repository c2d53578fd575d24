package main

import (
	"image"

	"golang.org/x/image/draw"
)

// toNRGBA returns a copy of src with origin (0, 0). NRGBA sources are copied
// byte for byte so color under zero alpha survives, anything else goes
// through draw.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			s := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()*4], n.Pix[s:s+b.Dx()*4])
		}
		return dst
	}

	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// extractChannel copies byte c (0 red, 1 green, 2 blue, 3 alpha) of every
// pixel into a single channel buffer.
func extractChannel(src *image.NRGBA, c int) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := range d {
			d[x] = s[x*4+c]
		}
	}
	return dst
}

// SpecularMap is the red channel of src as a grayscale image.
func SpecularMap(src image.Image) *image.Gray {
	return extractChannel(toNRGBA(src), 0)
}

// NormalMap clones src as 24-bit color and swaps green and blue. When alpha
// is set the alpha of src replaces the red channel of the result, otherwise
// red is kept.
func NormalMap(src image.Image, alpha bool) *image.NRGBA {
	orig := toNRGBA(src)
	out := toNRGBA(orig)

	w, h := out.Rect.Dx(), out.Rect.Dy()
	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			row[i+1], row[i+2] = row[i+2], row[i+1]
			row[i+3] = 0xff
		}
	}
	if !alpha {
		return out
	}

	a8 := extractChannel(orig, 3)
	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		a := a8.Pix[y*a8.Stride : y*a8.Stride+w]
		for x, v := range a {
			row[x*4] = v
		}
	}
	return out
}
