//go:build linux

package fb

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

type fbVarScreenInfo struct {
	XRes         uint32
	YRes         uint32
	XResVirtual  uint32
	YResVirtual  uint32
	XOffset      uint32
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          fbBitfield
	Green        fbBitfield
	Blue         fbBitfield
	Transp       fbBitfield
	Nonstd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	Pixclock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HsyncLen     uint32
	VsyncLen     uint32
	Sync         uint32
	Vmode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

type fbFixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// Framebuffer is a memory-mapped mxcfb device with 16-bit RGB565 pixels.
type Framebuffer struct {
	file   *os.File
	mem    []byte
	bounds image.Rectangle
	stride int
	marker uint32
}

var _ Device = (*Framebuffer)(nil)

// Open maps the framebuffer at path (usually DefaultPath).
func Open(path string) (*Framebuffer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("fb: open %s: %w", path, err)
	}

	var vinfo fbVarScreenInfo
	if err := ioctl(f, fbioGetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		f.Close()
		return nil, fmt.Errorf("fb: FBIOGET_VSCREENINFO: %w", err)
	}
	var finfo fbFixScreenInfo
	if err := ioctl(f, fbioGetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		f.Close()
		return nil, fmt.Errorf("fb: FBIOGET_FSCREENINFO: %w", err)
	}
	if vinfo.BitsPerPixel != 16 {
		f.Close()
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrPixelFormat, vinfo.BitsPerPixel)
	}

	stride := int(finfo.LineLength)
	if stride == 0 {
		stride = int(vinfo.XResVirtual) * 2
	}
	size := int(finfo.SmemLen)
	if size == 0 {
		size = stride * int(vinfo.YResVirtual)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("fb: mmap %d bytes: %w", size, err)
	}

	return &Framebuffer{
		file:   f,
		mem:    mem,
		bounds: image.Rect(0, 0, int(vinfo.XRes), int(vinfo.YRes)),
		stride: stride,
	}, nil
}

func ioctl(f *os.File, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (fb *Framebuffer) ColorModel() color.Model { return RGB565Model }
func (fb *Framebuffer) Bounds() image.Rectangle { return fb.bounds }

func (fb *Framebuffer) offset(x, y int) int {
	return y*fb.stride + x*2
}

func (fb *Framebuffer) At(x, y int) color.Color {
	if fb.mem == nil || !image.Pt(x, y).In(fb.bounds) {
		return Black565
	}
	i := fb.offset(x, y)
	return RGB565(binary.LittleEndian.Uint16(fb.mem[i:]))
}

func (fb *Framebuffer) Set(x, y int, c color.Color) {
	if fb.mem == nil || !image.Pt(x, y).In(fb.bounds) {
		return
	}
	i := fb.offset(x, y)
	binary.LittleEndian.PutUint16(fb.mem[i:], uint16(RGB565Model.Convert(c).(RGB565)))
}

func (fb *Framebuffer) Fill(r image.Rectangle, c color.Color) {
	r = r.Intersect(fb.bounds)
	if fb.mem == nil || r.Empty() {
		return
	}
	px := uint16(RGB565Model.Convert(c).(RGB565))
	row := make([]byte, r.Dx()*2)
	for i := 0; i < len(row); i += 2 {
		binary.LittleEndian.PutUint16(row[i:], px)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(fb.mem[fb.offset(r.Min.X, y):], row)
	}
}

// Refresh sends an MXCFB_SEND_UPDATE request for u and, if u.Wait is set,
// blocks until the EPDC reports that update marker complete.
func (fb *Framebuffer) Refresh(u Update) error {
	if fb.file == nil {
		return ErrClosed
	}
	u.Region = u.Region.Intersect(fb.bounds)
	if u.Region.Empty() {
		return ErrEmptyRegion
	}
	fb.marker++
	data := updateData(u, fb.marker)
	if err := ioctl(fb.file, mxcfbSendUpdate, unsafe.Pointer(&data)); err != nil {
		return fmt.Errorf("fb: MXCFB_SEND_UPDATE: %w", err)
	}
	if !u.Wait {
		return nil
	}
	wait := mxcfbUpdateMarkerData{UpdateMarker: fb.marker}
	if err := ioctl(fb.file, mxcfbWaitForUpdateComplete, unsafe.Pointer(&wait)); err != nil {
		return fmt.Errorf("fb: MXCFB_WAIT_FOR_UPDATE_COMPLETE: %w", err)
	}
	return nil
}

func (fb *Framebuffer) Close() error {
	if fb.file == nil {
		return ErrClosed
	}
	err := unix.Munmap(fb.mem)
	fb.mem = nil
	if cerr := fb.file.Close(); err == nil {
		err = cerr
	}
	fb.file = nil
	return err
}
