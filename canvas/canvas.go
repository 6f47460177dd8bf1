package canvas

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/jeffh/inkcanvas/fb"
)

// Dimensions of the reMarkable panel, the canvas' target hardware. Centering
// uses the bounds of the device actually opened, which match these there.
const (
	DisplayWidth  = 1404
	DisplayHeight = 1872
)

// ButtonBorder is the outline thickness DrawButton uses, in pixels.
const ButtonBorder = 5

var (
	Foreground color.Color = color.Gray{Y: 0x00}
	Background color.Color = color.Gray{Y: 0xff}
)

// shade is Foreground at coverage a (0-255) over Background.
func shade(a uint8) color.Gray {
	fg := int(color.GrayModel.Convert(Foreground).(color.Gray).Y)
	bg := int(color.GrayModel.Convert(Background).(color.Gray).Y)
	return color.Gray{Y: uint8(bg + (fg-bg)*int(a)/0xff)}
}

// Canvas draws into an e-ink device it exclusively owns.
type Canvas struct {
	dev    fb.Device
	fonts  *FontSet
	logger *slog.Logger
}

type Option func(*Canvas)

// WithFonts sets the fonts used for text. Defaults to DefaultFonts().
func WithFonts(s *FontSet) Option {
	return func(c *Canvas) { c.fonts = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Canvas) { c.logger = l }
}

// New returns a canvas drawing into dev. The canvas takes ownership of dev;
// nothing else may draw into it while the canvas is in use.
func New(dev fb.Device, opts ...Option) *Canvas {
	c := &Canvas{dev: dev}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.fonts == nil {
		c.fonts = DefaultFonts()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Open maps the framebuffer device at path, usually fb.DefaultPath. There is
// nothing to draw on without it, so callers normally treat an error as fatal.
func Open(path string, opts ...Option) (*Canvas, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, err
	}
	return New(dev, opts...), nil
}

func (c *Canvas) Bounds() image.Rectangle { return c.dev.Bounds() }

// Device returns the underlying device. Pixels written through it are not
// tracked by the canvas.
func (c *Canvas) Device() fb.Device { return c.dev }

func (c *Canvas) Fonts() *FontSet { return c.fonts }

func (c *Canvas) Close() error { return c.dev.Close() }

// Clear sets every pixel to Background. The panel is not refreshed.
func (c *Canvas) Clear() {
	fb.Fill(c.dev, c.dev.Bounds(), Background)
}

// UpdateFull refreshes the whole panel with the high quality GC16 waveform
// and waits for it to finish. Use it after large changes.
func (c *Canvas) UpdateFull() error {
	u := fb.Update{
		Region:   c.dev.Bounds(),
		Mode:     fb.UpdateFull,
		Waveform: fb.WaveformGC16,
		Temp:     fb.TempUseRemarkableDraw,
		Dither:   fb.DitherPassthrough,
		Wait:     true,
	}
	c.logger.Debug("refresh", slog.String("update", u.String()))
	return c.dev.Refresh(u)
}

// UpdatePartial asks for a fast refresh of r and returns without waiting for
// the panel. r must cover every pixel changed since the last refresh of that
// area; a larger r is safe, a smaller one leaves stale pixels.
func (c *Canvas) UpdatePartial(r Rect) error {
	bounds := c.dev.Bounds()
	if r.Empty() || !r.within(bounds) {
		return &BoundsError{Op: "refresh", Rect: r.Image(), Bounds: bounds}
	}
	region := r.Image()
	u := fb.Update{
		Region:   region,
		Mode:     fb.UpdatePartial,
		Waveform: fb.WaveformGC16Fast,
		Temp:     fb.TempUseRemarkableDraw,
		Dither:   fb.DitherRemarkable,
	}
	c.logger.Debug("refresh", slog.String("update", u.String()))
	return c.dev.Refresh(u)
}
