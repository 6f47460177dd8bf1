// Package canvas is a drawing surface over an e-ink framebuffer.
//
// A Canvas owns one fb.Device. Every draw call takes a Pos whose axes may be
// Auto, in which case the content is centered on the display along that axis,
// and returns the Rect it touched so the caller can refresh just that region:
//
//	c, err := canvas.Open(fb.DefaultPath)
//	if err != nil {
//		log.Fatal(err)
//	}
//	r, err := c.DrawText(canvas.Center(), "Hello", 64)
//	if err != nil {
//		log.Fatal(err)
//	}
//	c.UpdatePartial(r)
//
// Draws are synchronous and bounds-checked: geometry that would leave the
// display returns an error wrapping ErrOutOfBounds and writes nothing.
// A Canvas is not safe for concurrent use.
package canvas
