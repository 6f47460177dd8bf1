package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/jeffh/inkcanvas/fb"
)

func (c *Canvas) place(op string, pos Pos, w, h int) (image.Rectangle, error) {
	bounds := c.dev.Bounds()
	at := pos.resolve(bounds, w, h)
	r := image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}
	return r, checkBounds(op, r, bounds)
}

// dim converts v to an int no larger than limit+1, so sizes too big for the
// display still fail the bounds check when int is 32 bits wide.
func dim(v uint32, limit int) int {
	if uint64(v) > uint64(limit) {
		return limit + 1
	}
	return int(v)
}

// textBox measures text and resolves where it would be drawn.
func (c *Canvas) textBox(op string, pos Pos, text string, size float64) (image.Rectangle, error) {
	if text == "" {
		return image.Rectangle{}, ErrEmptyText
	}
	sz, err := c.fonts.Measure(text, size)
	if err != nil {
		return image.Rectangle{}, err
	}
	if sz.X <= 0 || sz.Y <= 0 {
		return image.Rectangle{}, ErrEmptyText
	}
	return c.place(op, pos, sz.X, sz.Y)
}

// DrawText renders text in Foreground with its box's top-left corner at pos.
// Auto axes center the box, which is measured before anything is drawn.
// Lines are separated by "\n". size is the font size in pixels.
func (c *Canvas) DrawText(pos Pos, text string, size float64) (Rect, error) {
	box, err := c.textBox("text", pos, text, size)
	if err != nil {
		return Rect{}, err
	}
	if _, err := c.fonts.render(c.dev, box.Min, text, size); err != nil {
		return Rect{}, err
	}
	return RectOf(box), nil
}

// DrawRect draws the outline of a size rectangle in Foreground. The border
// grows inwards from the edges; a border at least half the shorter side fills
// the rectangle.
func (c *Canvas) DrawRect(pos Pos, size Size, borderPx uint32) (Rect, error) {
	b := c.dev.Bounds()
	r, err := c.place("rect", pos, dim(size.Width, b.Dx()), dim(size.Height, b.Dy()))
	if err != nil {
		return Rect{}, err
	}
	outline(c.dev, r, dim(borderPx, r.Dx()), Foreground)
	return RectOf(r), nil
}

func outline(dst draw.Image, r image.Rectangle, border int, clr color.Color) {
	if border <= 0 || r.Empty() {
		return
	}
	if 2*border >= r.Dx() || 2*border >= r.Dy() {
		fb.Fill(dst, r, clr)
		return
	}
	fb.Fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+border), clr)
	fb.Fill(dst, image.Rect(r.Min.X, r.Max.Y-border, r.Max.X, r.Max.Y), clr)
	fb.Fill(dst, image.Rect(r.Min.X, r.Min.Y+border, r.Min.X+border, r.Max.Y-border), clr)
	fb.Fill(dst, image.Rect(r.Max.X-border, r.Min.Y+border, r.Max.X, r.Max.Y-border), clr)
}

// FillRect paints a solid size rectangle of clr.
func (c *Canvas) FillRect(pos Pos, size Size, clr color.Color) (Rect, error) {
	b := c.dev.Bounds()
	r, err := c.place("fill", pos, dim(size.Width, b.Dx()), dim(size.Height, b.Dy()))
	if err != nil {
		return Rect{}, err
	}
	fb.Fill(c.dev, r, clr)
	return RectOf(r), nil
}

// DrawButton draws text with a ButtonBorder outline hgap pixels to its left
// and right and vgap pixels above and below. The outline follows where the
// text landed, so Auto axes center the text, not the outline. The returned
// Rect is the outline's. Nothing is drawn unless both fit on the display.
func (c *Canvas) DrawButton(pos Pos, text string, fontSize float64, vgap, hgap uint32) (Rect, error) {
	box, err := c.textBox("button", pos, text, fontSize)
	if err != nil {
		return Rect{}, err
	}
	b := c.dev.Bounds()
	hg, vg := dim(hgap, b.Dx()), dim(vgap, b.Dy())
	border := image.Rect(box.Min.X-hg, box.Min.Y-vg, box.Max.X+hg, box.Max.Y+vg)
	if err := checkBounds("button", border, b); err != nil {
		return Rect{}, err
	}
	textRect, err := c.DrawText(At(box.Min.X, box.Min.Y), text, fontSize)
	if err != nil {
		return Rect{}, err
	}
	return c.DrawRect(
		At(int(textRect.Left)-hg, int(textRect.Top)-vg),
		Sz(hgap+textRect.Width+hgap, vgap+textRect.Height+vgap),
		ButtonBorder,
	)
}

// DrawImage writes img with its top-left corner at pos.
//
// When transparent is false the RGB channels are copied and alpha is ignored.
// When it is true img is blended with the pixels already on the display using
// Overlay, which weighs the existing pixel by (255-alpha)/255.
func (c *Canvas) DrawImage(pos Pos, img image.Image, transparent bool) (Rect, error) {
	ib := img.Bounds()
	r, err := c.place("image", pos, ib.Dx(), ib.Dy())
	if err != nil {
		return Rect{}, err
	}
	var src *image.RGBA
	if transparent {
		src = Overlay(c.dev, r.Min, img)
	} else {
		src = Opaque(img)
	}
	draw.Draw(c.dev, r, src, image.Point{}, draw.Src)
	return RectOf(r), nil
}
