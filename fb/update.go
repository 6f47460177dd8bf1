package fb

import (
	"fmt"
	"image"
)

// Waveform selects the electrical driving sequence of the EPDC.
type Waveform uint32

const (
	WaveformInit     Waveform = 0x0
	WaveformDU       Waveform = 0x1
	WaveformGC16     Waveform = 0x2
	WaveformGC16Fast Waveform = 0x3
	WaveformA2       Waveform = 0x4
	WaveformGL16     Waveform = 0x5
	WaveformGL16Fast Waveform = 0x6
	WaveformDU4      Waveform = 0x7
	WaveformREAGL    Waveform = 0x8
	WaveformREAGLD   Waveform = 0x9
	WaveformAuto     Waveform = 0x101
)

func (w Waveform) String() string {
	switch w {
	case WaveformInit:
		return "INIT"
	case WaveformDU:
		return "DU"
	case WaveformGC16:
		return "GC16"
	case WaveformGC16Fast:
		return "GC16_FAST"
	case WaveformA2:
		return "A2"
	case WaveformGL16:
		return "GL16"
	case WaveformGL16Fast:
		return "GL16_FAST"
	case WaveformDU4:
		return "DU4"
	case WaveformREAGL:
		return "REAGL"
	case WaveformREAGLD:
		return "REAGLD"
	case WaveformAuto:
		return "AUTO"
	default:
		return fmt.Sprintf("Waveform(%#x)", uint32(w))
	}
}

// UpdateMode is partial (only changed pixels are driven) or full.
type UpdateMode uint32

const (
	UpdatePartial UpdateMode = 0x0
	UpdateFull    UpdateMode = 0x1
)

// Temperature is either a panel temperature in °C or one of the TempUse
// markers that tell the driver where to read it from.
type Temperature int32

const (
	TempUseRemarkableDraw Temperature = 0x0018
	TempUseAmbient        Temperature = 0x1000
	TempUsePapyrus        Temperature = 0x1001
	TempUseMax            Temperature = 0xFFFF
)

// Dither is the EPDC dithering flag passed with an update.
type Dither int32

const (
	DitherPassthrough Dither = 0x0
	DitherDrawing     Dither = 0x1
	DitherY1          Dither = 0x2000
	DitherY4          Dither = 0x4000
	DitherRemarkable  Dither = 0x300f30
)

// Update describes one refresh request.
type Update struct {
	Region   image.Rectangle
	Mode     UpdateMode
	Waveform Waveform
	Temp     Temperature
	Dither   Dither
	// Quant is the number of quantization bits used while dithering; 0 lets
	// the driver decide.
	Quant int32
	// Wait blocks until the panel reports the update finished.
	Wait bool
}

func (u Update) String() string {
	mode := "partial"
	if u.Mode == UpdateFull {
		mode = "full"
	}
	return fmt.Sprintf("%s %v waveform=%v temp=%#x dither=%#x wait=%v", mode, u.Region, u.Waveform, int32(u.Temp), int32(u.Dither), u.Wait)
}
