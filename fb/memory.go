package fb

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
)

// Memory is a Device backed by an RGBA image. Refreshes are only recorded,
// which makes it useful for previews and tests.
type Memory struct {
	img       *image.RGBA
	refreshes []Update
	closed    bool
}

var _ Device = (*Memory)(nil)

// NewMemory returns a white w×h device.
func NewMemory(w, h int) *Memory {
	m := &Memory{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	draw.Draw(m.img, m.img.Bounds(), image.White, image.Point{}, draw.Src)
	return m
}

func (m *Memory) ColorModel() color.Model     { return m.img.ColorModel() }
func (m *Memory) Bounds() image.Rectangle     { return m.img.Bounds() }
func (m *Memory) At(x, y int) color.Color     { return m.img.At(x, y) }
func (m *Memory) Set(x, y int, c color.Color) { m.img.Set(x, y, c) }

func (m *Memory) Fill(r image.Rectangle, c color.Color) {
	draw.Draw(m.img, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

// Image exposes the pixels. Callers must not keep it across draws if they
// expect a snapshot.
func (m *Memory) Image() *image.RGBA { return m.img }

func (m *Memory) Refresh(u Update) error {
	if m.closed {
		return ErrClosed
	}
	if u.Region.Intersect(m.img.Bounds()).Empty() {
		return ErrEmptyRegion
	}
	m.refreshes = append(m.refreshes, u)
	return nil
}

// Refreshes returns every update requested so far, oldest first.
func (m *Memory) Refreshes() []Update {
	return append([]Update(nil), m.refreshes...)
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}

// WritePNG encodes the current pixels.
func (m *Memory) WritePNG(w io.Writer) error {
	return png.Encode(w, m.img)
}
