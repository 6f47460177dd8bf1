//go:build !linux

package fb

import (
	"image"
	"image/color"
)

// Framebuffer is only available on linux.
type Framebuffer struct{}

func Open(path string) (*Framebuffer, error) {
	return nil, ErrUnsupported
}

func (fb *Framebuffer) ColorModel() color.Model               { return RGB565Model }
func (fb *Framebuffer) Bounds() image.Rectangle               { return image.Rectangle{} }
func (fb *Framebuffer) At(x, y int) color.Color               { return Black565 }
func (fb *Framebuffer) Set(x, y int, c color.Color)           {}
func (fb *Framebuffer) Fill(r image.Rectangle, c color.Color) {}
func (fb *Framebuffer) Refresh(u Update) error                { return ErrUnsupported }
func (fb *Framebuffer) Close() error                          { return ErrUnsupported }
