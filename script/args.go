package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeffh/inkcanvas/canvas"
)

// Args holds the key=value arguments of one command.
type Args map[string]string

func (a Args) Has(k string) bool { _, ok := a[k]; return ok }

// Coord parses k as a position on one axis. Missing or "auto" centers.
func (a Args) Coord(k string) (canvas.Coord, error) {
	v, ok := a[k]
	if !ok || v == "auto" {
		return canvas.Auto, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return canvas.Auto, fmt.Errorf("%w: %s=%q", ErrBadArg, k, v)
	}
	return canvas.Abs(n), nil
}

func (a Args) Pos() (canvas.Pos, error) {
	x, err := a.Coord("x")
	if err != nil {
		return canvas.Pos{}, err
	}
	y, err := a.Coord("y")
	if err != nil {
		return canvas.Pos{}, err
	}
	return canvas.Pos{X: x, Y: y}, nil
}

func (a Args) Uint32(k string, def uint32) (uint32, error) {
	v, ok := a[k]
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadArg, k, v)
	}
	return uint32(n), nil
}

func (a Args) Uint8(k string, def uint8) (uint8, error) {
	v, ok := a[k]
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadArg, k, v)
	}
	return uint8(n), nil
}

func (a Args) Int(k string, def int) (int, error) {
	v, ok := a[k]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadArg, k, v)
	}
	return n, nil
}

func (a Args) Float(k string, def float64) (float64, error) {
	v, ok := a[k]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadArg, k, v)
	}
	return f, nil
}

func strBool(s string) bool {
	switch strings.ToLower(s) {
	case "", "true", "t", "yes", "y", "1":
		return true
	}
	return false
}

// Bool reports whether k is set to a true value. A bare key counts as true.
func (a Args) Bool(k string) bool {
	v, ok := a[k]
	return ok && strBool(v)
}

// Size reads the w and h arguments, both of which are required.
func (a Args) Size() (canvas.Size, error) {
	for _, k := range []string{"w", "h"} {
		if !a.Has(k) {
			return canvas.Size{}, fmt.Errorf("%w: %s", ErrMissingArg, k)
		}
	}
	w, err := a.Uint32("w", 0)
	if err != nil {
		return canvas.Size{}, err
	}
	h, err := a.Uint32("h", 0)
	if err != nil {
		return canvas.Size{}, err
	}
	return canvas.Sz(w, h), nil
}
