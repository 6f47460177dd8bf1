package canvas

import (
	"image"
	"image/color"
)

// Overlay blends src over the pixels of dst starting at at and returns the
// result as an opaque image the size of src. dst is only read.
//
// Blending works on straight (non-premultiplied) channels in [0,1]. The
// weight of the existing pixel, its coverage, is derived from the source
// alpha:
//
//	coverage = (255 - alpha) / 255
//	out      = src*(1-coverage) + existing*coverage
//
// Alpha 255 therefore writes the source pixel and alpha 0 keeps what is on
// the display. Results are truncated, not rounded, back to 8 bits so output
// matches artwork prepared for the stock tablet software pixel for pixel.
//
// The blended image is built completely before the caller writes it, so the
// display never shows a partially blended state.
func Overlay(dst image.Image, at image.Point, src image.Image) *image.RGBA {
	sb := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	for y := 0; y < sb.Dy(); y++ {
		for x := 0; x < sb.Dx(); x++ {
			s := color.NRGBAModel.Convert(src.At(sb.Min.X+x, sb.Min.Y+y)).(color.NRGBA)
			e := color.NRGBAModel.Convert(dst.At(at.X+x, at.Y+y)).(color.NRGBA)
			coverage := float32(255-s.A) / 255
			out.SetRGBA(x, y, color.RGBA{
				R: blend(s.R, e.R, coverage),
				G: blend(s.G, e.G, coverage),
				B: blend(s.B, e.B, coverage),
				A: 0xff,
			})
		}
	}
	return out
}

func blend(src, existing uint8, coverage float32) uint8 {
	v := float32(src)/255*(1-coverage) + float32(existing)/255*coverage
	return uint8(v * 255)
}

// Opaque copies the RGB channels of img and drops its alpha. Unlike drawing
// img with draw.Src, translucent pixels keep their full color instead of
// being premultiplied towards black.
func Opaque(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return out
}
