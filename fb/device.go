// Package fb provides the devices a canvas draws into: the mxcfb framebuffer
// of an e-ink tablet, a Waveshare SPI e-paper hat, and an in-memory device for
// previews and tests.
//
// A Device is a draw.Image whose pixels are the display's memory plus a way to
// ask the panel to show them. Writes are synchronous; refreshes may complete
// on the hardware after Refresh returns.
package fb

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// DefaultPath is the framebuffer device of the reMarkable tablet.
const DefaultPath = "/dev/fb0"

var (
	ErrUnsupported = errors.New("fb: device not supported on this platform")
	ErrClosed      = errors.New("fb: device closed")
	ErrPixelFormat = errors.New("fb: unsupported pixel format")
	ErrEmptyRegion = errors.New("fb: empty refresh region")
)

type Device interface {
	draw.Image
	// Refresh asks the panel to show the current pixels of u.Region.
	Refresh(u Update) error
	Close() error
}

// Filler is implemented by devices that can fill a region faster than
// per-pixel Set calls.
type Filler interface {
	Fill(r image.Rectangle, c color.Color)
}

// Fill paints r with c on dev, using Filler when the device provides it.
func Fill(dev draw.Image, r image.Rectangle, c color.Color) {
	r = r.Intersect(dev.Bounds())
	if r.Empty() {
		return
	}
	if f, ok := dev.(Filler); ok {
		f.Fill(r, c)
		return
	}
	draw.Draw(dev, r, &image.Uniform{c}, image.Point{}, draw.Src)
}
