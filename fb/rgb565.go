package fb

import "image/color"

// RGB565 is a 16-bit pixel as stored in the framebuffer: 5 bits red, 6 bits
// green, 5 bits blue.
type RGB565 uint16

func (c RGB565) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB8()
	r = uint32(r8)
	r |= r << 8
	g = uint32(g8)
	g |= g << 8
	b = uint32(b8)
	b |= b << 8
	return r, g, b, 0xffff
}

// RGB8 expands the channels to 8 bits, replicating the high bits so that
// 0xFFFF reads back as pure white.
func (c RGB565) RGB8() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1f
	g6 := uint8(c>>5) & 0x3f
	b5 := uint8(c) & 0x1f
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// ToRGB565 packs 8-bit channels by truncating the low bits.
func ToRGB565(r, g, b uint8) RGB565 {
	return RGB565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

var RGB565Model color.Model = color.ModelFunc(rgb565Model)

func rgb565Model(c color.Color) color.Color {
	if c, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return ToRGB565(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

const (
	Black565 RGB565 = 0x0000
	White565 RGB565 = 0xffff
)
