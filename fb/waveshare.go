package fb

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v2"
	"periph.io/x/host/v3"
)

// Panel is the part of a periph.io e-paper driver that Waveshare uses.
type Panel interface {
	Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error
	Bounds() image.Rectangle
}

// ModePanel is implemented by panels that switch between full and partial
// updates, such as waveshare2in13v2.Dev.
type ModePanel interface {
	Panel
	SetUpdateMode(mode waveshare2in13v2.PartialUpdate) error
}

// Waveshare is a Device for SPI e-paper hats. Pixels live in a 1-bit shadow
// buffer; Refresh pushes the requested region to the panel.
type Waveshare struct {
	panel  Panel
	buf    *image1bit.VerticalLSB
	closer func() error
	logger *slog.Logger
}

var _ Device = (*Waveshare)(nil)

// OpenWaveshare initializes the periph.io host drivers and opens a
// Waveshare 2.13" v2 hat on the named SPI port ("" for the first one).
func OpenWaveshare(port string, logger *slog.Logger) (*Waveshare, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	b, err := spireg.Open(port)
	if err != nil {
		return nil, err
	}
	dev, err := waveshare2in13v2.NewHat(b, &waveshare2in13v2.EPD2in13v2)
	if err != nil {
		b.Close()
		return nil, err
	}
	if err := dev.Init(); err != nil {
		b.Close()
		return nil, err
	}
	if err := dev.Clear(color.White); err != nil {
		b.Close()
		return nil, err
	}
	w := NewWaveshare(dev, logger)
	w.closer = b.Close
	return w, nil
}

// NewWaveshare wraps an already initialized panel.
func NewWaveshare(p Panel, logger *slog.Logger) *Waveshare {
	if logger == nil {
		logger = slog.Default()
	}
	buf := image1bit.NewVerticalLSB(p.Bounds())
	draw.Draw(buf, buf.Bounds(), image.White, image.Point{}, draw.Src)
	return &Waveshare{panel: p, buf: buf, logger: logger}
}

func (w *Waveshare) ColorModel() color.Model     { return w.buf.ColorModel() }
func (w *Waveshare) Bounds() image.Rectangle     { return w.buf.Bounds() }
func (w *Waveshare) At(x, y int) color.Color     { return w.buf.At(x, y) }
func (w *Waveshare) Set(x, y int, c color.Color) { w.buf.Set(x, y, c) }

func (w *Waveshare) Fill(r image.Rectangle, c color.Color) {
	draw.Draw(w.buf, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

// Refresh draws u.Region of the shadow buffer. Waveform, temperature and
// dithering are chosen by the panel's own LUTs and are ignored here.
func (w *Waveshare) Refresh(u Update) error {
	if w.panel == nil {
		return ErrClosed
	}
	r := u.Region.Intersect(w.buf.Bounds())
	if r.Empty() {
		return ErrEmptyRegion
	}
	if mp, ok := w.panel.(ModePanel); ok {
		mode := waveshare2in13v2.Partial
		if u.Mode == UpdateFull {
			mode = waveshare2in13v2.Full
		}
		if err := mp.SetUpdateMode(mode); err != nil {
			return err
		}
	}
	if u.Mode == UpdateFull {
		r = w.buf.Bounds()
	}
	w.logger.Debug("waveshare refresh", slog.String("region", r.String()), slog.Bool("full", u.Mode == UpdateFull))
	return w.panel.Draw(r, w.buf, r.Min)
}

func (w *Waveshare) Close() error {
	if w.panel == nil {
		return ErrClosed
	}
	w.panel = nil
	if w.closer != nil {
		return w.closer()
	}
	return nil
}
