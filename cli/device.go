package cli

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/jeffh/inkcanvas/canvas"
	"github.com/jeffh/inkcanvas/fb"
)

var ErrUnknownDevice = errors.New("unknown device")

const (
	DeviceFramebuffer = "fbdev"
	DeviceWaveshare   = "waveshare"
	DeviceMemory      = "memory"
)

// DeviceConfig selects and opens the display a command draws on.
type DeviceConfig struct {
	Device  string
	FBPath  string
	SPIPort string
	// Fonts is a comma separated list of font names or paths, tried in order
	// for every rune before the built in Go font.
	Fonts string
	// Preview, when set, is where WritePreview saves a PNG of the display.
	Preview string

	Width, Height int
}

func (c *DeviceConfig) SetFlags(f Flags) {
	if f == nil {
		f = &StdFlags{}
	}
	f.StringVar(&c.Device, "device", DeviceFramebuffer, "Display to draw on: fbdev, waveshare or memory")
	f.StringVar(&c.FBPath, "fb", fb.DefaultPath, "Framebuffer device for -device=fbdev")
	f.StringVar(&c.SPIPort, "spi", "", "SPI port for -device=waveshare, defaults to the first one")
	f.StringVar(&c.Fonts, "font", "", "Comma separated fonts to draw text with, by name or path")
	f.StringVar(&c.Preview, "preview", "", "Write a PNG of the display to this file when done")
	f.IntVar(&c.Width, "width", canvas.DisplayWidth, "Width of a -device=memory display")
	f.IntVar(&c.Height, "height", canvas.DisplayHeight, "Height of a -device=memory display")
}

func (c *DeviceConfig) fontNames() []string {
	var names []string
	for _, n := range strings.Split(c.Fonts, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// OpenDevice opens the configured device without wrapping it in a canvas.
func (c *DeviceConfig) OpenDevice(logger *slog.Logger) (fb.Device, error) {
	switch c.Device {
	case DeviceFramebuffer, "":
		path := c.FBPath
		if path == "" {
			path = fb.DefaultPath
		}
		dev, err := fb.Open(path)
		if err != nil {
			return nil, err
		}
		return dev, nil
	case DeviceWaveshare:
		dev, err := fb.OpenWaveshare(c.SPIPort, logger)
		if err != nil {
			return nil, err
		}
		return dev, nil
	case DeviceMemory:
		if c.Width <= 0 || c.Height <= 0 {
			return nil, fmt.Errorf("memory display of %dx%d: %w", c.Width, c.Height, canvas.ErrInvalidSize)
		}
		return fb.NewMemory(c.Width, c.Height), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, c.Device)
}

// Open opens the configured device and its fonts as a canvas.
func (c *DeviceConfig) Open(logger *slog.Logger) (*canvas.Canvas, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dev, err := c.OpenDevice(logger)
	if err != nil {
		return nil, fmt.Errorf("open %s display: %w", c.Device, err)
	}
	opts := []canvas.Option{canvas.WithLogger(logger)}
	if names := c.fontNames(); len(names) > 0 {
		opts = append(opts, canvas.WithFonts(canvas.LoadFonts(nil, names, logger)))
	}
	return canvas.New(dev, opts...), nil
}

// WritePreview saves the pixels of cv to c.Preview, if set.
func (c *DeviceConfig) WritePreview(cv *canvas.Canvas) error {
	if c.Preview == "" {
		return nil
	}
	f, err := os.Create(c.Preview)
	if err != nil {
		return err
	}
	if m, ok := cv.Device().(*fb.Memory); ok {
		err = m.WritePNG(f)
	} else {
		b := cv.Bounds()
		img := image.NewRGBA(b)
		draw.Draw(img, b, cv.Device(), b.Min, draw.Src)
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
