package canvas

import (
	"errors"
	"fmt"
	"image"
)

var (
	ErrOutOfBounds = errors.New("canvas: out of display bounds")
	ErrEmptyText   = errors.New("canvas: empty text")
	ErrInvalidSize = errors.New("canvas: invalid size")
	ErrNoFonts     = errors.New("canvas: no usable fonts")
)

// BoundsError is returned when a draw or refresh would touch pixels outside
// the display. Nothing is drawn when it is returned.
type BoundsError struct {
	Op     string
	Rect   image.Rectangle
	Bounds image.Rectangle
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("canvas: %s %v outside display %v", e.Op, e.Rect, e.Bounds)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }

func checkBounds(op string, r, bounds image.Rectangle) error {
	if r.Min.X < bounds.Min.X || r.Min.Y < bounds.Min.Y || r.Max.X > bounds.Max.X || r.Max.Y > bounds.Max.Y {
		return &BoundsError{Op: op, Rect: r, Bounds: bounds}
	}
	return nil
}
