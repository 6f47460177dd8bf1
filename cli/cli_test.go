package cli

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jeffh/inkcanvas/canvas"
	"github.com/jeffh/inkcanvas/fb"
)

func TestDeviceConfigFlags(t *testing.T) {
	var cfg DeviceConfig
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.SetFlags(fs)
	err := fs.Parse([]string{"-device", "memory", "-width", "200", "-height", "100", "-font", "DejaVuSans, ,/tmp/x.ttf"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Device != DeviceMemory || cfg.Width != 200 || cfg.Height != 100 || cfg.FBPath != fb.DefaultPath {
		t.Fatalf("Unexpected config: %#v", cfg)
	}
	expected := []string{"DejaVuSans", "/tmp/x.ttf"}
	if names := cfg.fontNames(); !reflect.DeepEqual(names, expected) {
		t.Fatalf("Expected %#v, got %#v", expected, names)
	}
}

func TestOpenMemoryAndPreview(t *testing.T) {
	cfg := DeviceConfig{
		Device:  DeviceMemory,
		Width:   40,
		Height:  30,
		Preview: filepath.Join(t.TempDir(), "out.png"),
	}
	c, err := cfg.Open(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer c.Close()
	if _, err := c.FillRect(canvas.At(0, 0), canvas.Sz(10, 10), canvas.Foreground); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := cfg.WritePreview(c); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	f, err := os.Open(cfg.Preview)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("Expected a 40x30 preview, got %v", b)
	}
	if r, _, _, _ := img.At(5, 5).RGBA(); r != 0 {
		t.Fatalf("Expected the filled pixel to be black, got %v", img.At(5, 5))
	}
}

func TestOpenErrors(t *testing.T) {
	cfg := DeviceConfig{Device: "crt"}
	if _, err := cfg.Open(nil); !errors.Is(err, ErrUnknownDevice) {
		t.Fatalf("Expected ErrUnknownDevice, got %v", err)
	}
	cfg = DeviceConfig{Device: DeviceMemory}
	if _, err := cfg.Open(nil); !errors.Is(err, canvas.ErrInvalidSize) {
		t.Fatalf("Expected ErrInvalidSize, got %v", err)
	}
}

type recordingLogger struct {
	infos, errors []string
}

func (l *recordingLogger) Error(v ...interface{}) error {
	l.errors = append(l.errors, fmt.Sprint(v...))
	return nil
}
func (l *recordingLogger) Warning(v ...interface{}) error { return l.Info(v...) }
func (l *recordingLogger) Info(v ...interface{}) error {
	l.infos = append(l.infos, fmt.Sprint(v...))
	return nil
}
func (l *recordingLogger) Errorf(format string, a ...interface{}) error {
	return l.Error(fmt.Sprintf(format, a...))
}
func (l *recordingLogger) Warningf(format string, a ...interface{}) error {
	return l.Info(fmt.Sprintf(format, a...))
}
func (l *recordingLogger) Infof(format string, a ...interface{}) error {
	return l.Info(fmt.Sprintf(format, a...))
}

func TestServiceLogger(t *testing.T) {
	rec := &recordingLogger{}
	logger := ServiceLogger(rec)
	logger.Debug("refresh")
	logger.Error("failed", "error", "boom")
	if len(rec.infos) != 1 || len(rec.errors) != 1 {
		t.Fatalf("Expected one info and one error, got %#v and %#v", rec.infos, rec.errors)
	}
}
