package fb

import "unsafe"

// Layouts of the i.MX EPDC structures as patched for the reMarkable kernel,
// which carries dither_mode and quant_bit in the update request.

type mxcfbRect struct {
	Top    uint32
	Left   uint32
	Width  uint32
	Height uint32
}

type mxcfbAltBufferData struct {
	PhysAddr        uint32
	Width           uint32
	Height          uint32
	AltUpdateRegion mxcfbRect
}

type mxcfbUpdateData struct {
	UpdateRegion mxcfbRect
	WaveformMode uint32
	UpdateMode   uint32
	UpdateMarker uint32
	Temp         int32
	Flags        uint32
	DitherMode   int32
	QuantBit     int32
	AltBuffer    mxcfbAltBufferData
}

type mxcfbUpdateMarkerData struct {
	UpdateMarker  uint32
	CollisionTest uint32
}

const (
	iocWrite = 1
	iocRead  = 2

	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

var (
	mxcfbSendUpdate            = ioc(iocWrite, 'F', 0x2E, unsafe.Sizeof(mxcfbUpdateData{}))
	mxcfbWaitForUpdateComplete = ioc(iocRead|iocWrite, 'F', 0x2F, unsafe.Sizeof(mxcfbUpdateMarkerData{}))
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | typ<<8 | nr
}

func updateData(u Update, marker uint32) mxcfbUpdateData {
	r := u.Region
	return mxcfbUpdateData{
		UpdateRegion: mxcfbRect{
			Top:    uint32(r.Min.Y),
			Left:   uint32(r.Min.X),
			Width:  uint32(r.Dx()),
			Height: uint32(r.Dy()),
		},
		WaveformMode: uint32(u.Waveform),
		UpdateMode:   uint32(u.Mode),
		UpdateMarker: marker,
		Temp:         int32(u.Temp),
		DitherMode:   int32(u.Dither),
		QuantBit:     u.Quant,
	}
}
