package canvas

import (
	"fmt"
	"image"
)

// Coord is one axis of a Pos. The zero value is Auto.
type Coord struct {
	v   int
	set bool
}

// Auto centers the content on its axis.
var Auto Coord

// Abs places content at v on its axis.
func Abs(v int) Coord { return Coord{v: v, set: true} }

// Value reports the coordinate and whether it was set.
func (c Coord) Value() (int, bool) { return c.v, c.set }

func (c Coord) String() string {
	if !c.set {
		return "auto"
	}
	return fmt.Sprint(c.v)
}

// Pos is the requested top-left corner of a draw. An Auto axis is resolved by
// centering the content on the display along that axis.
type Pos struct {
	X, Y Coord
}

func At(x, y int) Pos   { return Pos{X: Abs(x), Y: Abs(y)} }
func Center() Pos       { return Pos{} }
func CenterX(y int) Pos { return Pos{X: Auto, Y: Abs(y)} }
func CenterY(x int) Pos { return Pos{X: Abs(x), Y: Auto} }

func (p Pos) String() string { return fmt.Sprintf("(%v,%v)", p.X, p.Y) }

// resolve fills in the Auto axes of p for content of size (w, h) on a
// display of the given bounds.
func (p Pos) resolve(display image.Rectangle, w, h int) image.Point {
	x, ok := p.X.Value()
	if !ok {
		x = display.Dx()/2 - w/2
	}
	y, ok := p.Y.Value()
	if !ok {
		y = display.Dy()/2 - h/2
	}
	return image.Pt(x, y)
}

type Size struct {
	Width, Height uint32
}

func Sz(w, h uint32) Size { return Size{Width: w, Height: h} }

// Rect is a region of the display. It has the layout of the EPDC's
// mxcfb_rect, so it can be handed straight to a partial refresh.
type Rect struct {
	Top, Left, Width, Height uint32
}

// RectOf converts r, which must not have negative coordinates.
func RectOf(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{
		Top:    uint32(r.Min.Y),
		Left:   uint32(r.Min.X),
		Width:  uint32(r.Dx()),
		Height: uint32(r.Dy()),
	}
}

func (r Rect) Image() image.Rectangle {
	return image.Rect(int(r.Left), int(r.Top), int(r.Left)+int(r.Width), int(r.Top)+int(r.Height))
}

// within reports whether r lies inside bounds, without overflowing on any
// field values.
func (r Rect) within(bounds image.Rectangle) bool {
	return int64(r.Left) >= int64(bounds.Min.X) && int64(r.Left)+int64(r.Width) <= int64(bounds.Max.X) &&
		int64(r.Top) >= int64(bounds.Min.Y) && int64(r.Top)+int64(r.Height) <= int64(bounds.Max.Y)
}

func (r Rect) Empty() bool { return r.Width == 0 || r.Height == 0 }

// Union returns the smallest Rect containing both r and s. Empty rects are
// ignored.
func (r Rect) Union(s Rect) Rect {
	switch {
	case r.Empty():
		return s
	case s.Empty():
		return r
	}
	return RectOf(r.Image().Union(s.Image()))
}

func (r Rect) String() string {
	return fmt.Sprintf("{top:%d left:%d width:%d height:%d}", r.Top, r.Left, r.Width, r.Height)
}

// IsHitting reports whether p lies inside r. Both axes are half-open: a point
// on the right or bottom edge does not hit.
func IsHitting(p image.Point, r Rect) bool {
	if p.X < 0 || p.Y < 0 {
		return false
	}
	x, y := uint64(p.X), uint64(p.Y)
	return x >= uint64(r.Left) && x < uint64(r.Left)+uint64(r.Width) &&
		y >= uint64(r.Top) && y < uint64(r.Top)+uint64(r.Height)
}
