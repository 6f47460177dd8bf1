package canvas

import (
	"fmt"
	"image"
	"image/draw"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// faceCacheSize bounds the number of (font, size) faces kept alive. Each face
// holds its own glyph buffers.
const faceCacheSize = 64

type faceKey struct {
	font int
	size float64
}

// FontSet renders text with an ordered list of fonts. Each rune is drawn with
// the first font that has a glyph for it.
type FontSet struct {
	Fonts []*sfnt.Font
	Names []string
	// DPI used to turn a size into pixels; at 72 a size is a pixel height.
	DPI float64

	faces  *lru.Cache[faceKey, font.Face]
	logger *slog.Logger
}

// NewFontSet returns a set over the given parsed fonts.
func NewFontSet(fonts []*sfnt.Font, names []string) (*FontSet, error) {
	if len(fonts) == 0 {
		return nil, ErrNoFonts
	}
	cache, err := lru.New[faceKey, font.Face](faceCacheSize)
	if err != nil {
		return nil, err
	}
	return &FontSet{Fonts: fonts, Names: names, DPI: 72, faces: cache, logger: slog.Default()}, nil
}

// DefaultFonts is a set with just Go Regular, which is always available.
func DefaultFonts() *FontSet {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("canvas: parse embedded font: %v", err))
	}
	s, err := NewFontSet([]*sfnt.Font{fnt}, []string{"Go-Regular"})
	if err != nil {
		panic(err)
	}
	return s
}

// LoadFonts loads the named fonts, in order, followed by Go Regular as a last
// resort. Names are looked up among the system fonts first, then as paths in
// fsys (the root file system when nil). Fonts that fail to load are logged and
// skipped.
func LoadFonts(fsys fs.FS, names []string, logger *slog.Logger) *FontSet {
	if fsys == nil {
		fsys = os.DirFS("/")
	}
	if logger == nil {
		logger = slog.Default()
	}
	fonts := make([]*sfnt.Font, 0, len(names)+1)
	loaded := make([]string, 0, len(names)+1)
	for _, name := range names {
		fnts, err := loadFont(fsys, name)
		if err != nil {
			logger.Error("error loading font", slog.String("name", name), slog.String("error", err.Error()))
			continue
		}
		for range fnts {
			loaded = append(loaded, name)
		}
		fonts = append(fonts, fnts...)
	}
	def := DefaultFonts()
	s, _ := NewFontSet(append(fonts, def.Fonts...), append(loaded, def.Names...))
	s.logger = logger
	return s
}

// FindFont loads a single system font by name, falling back to Go Regular.
func FindFont(name string) *FontSet {
	return LoadFonts(nil, []string{name}, nil)
}

func loadFont(fsys fs.FS, name string) ([]*sfnt.Font, error) {
	var (
		data []byte
		err  error
	)
	path, ferr := findfont.Find(name)
	if ferr == nil {
		data, err = os.ReadFile(path)
	} else {
		path = name
		data, err = fs.ReadFile(fsys, strings.TrimPrefix(filepath.ToSlash(name), "/"))
	}
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".ttc") || strings.EqualFold(filepath.Ext(path), ".otc") {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		fonts := make([]*sfnt.Font, 0, coll.NumFonts())
		for i := 0; i < coll.NumFonts(); i++ {
			f, err := coll.Font(i)
			if err != nil {
				return nil, err
			}
			fonts = append(fonts, f)
		}
		return fonts, nil
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return []*sfnt.Font{fnt}, nil
}

func (s *FontSet) face(i int, size float64) (font.Face, error) {
	key := faceKey{font: i, size: size}
	if f, ok := s.faces.Get(key); ok {
		return f, nil
	}
	f, err := opentype.NewFace(s.Fonts[i], &opentype.FaceOptions{
		Size:    size,
		DPI:     s.DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	s.faces.Add(key, f)
	return f, nil
}

func (s *FontSet) facesFor(size float64) ([]font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: font size %v", ErrInvalidSize, size)
	}
	faces := make([]font.Face, len(s.Fonts))
	for i := range s.Fonts {
		f, err := s.face(i, size)
		if err != nil {
			return nil, err
		}
		faces[i] = f
	}
	return faces, nil
}

// glyph is one positioned rune of laid out text.
type glyph struct {
	face font.Face
	dot  fixed.Point26_6
	r    rune
}

// layout walks text line by line with the top of the first line at y=0 and
// calls fn for every rune that some font can draw. It returns the size of the
// text box.
func (s *FontSet) layout(text string, size float64, fn func(glyph)) (image.Point, error) {
	faces, err := s.facesFor(size)
	if err != nil {
		return image.Point{}, err
	}
	m := faces[0].Metrics()
	lines := strings.Split(text, "\n")

	var width fixed.Int26_6
	dot := fixed.Point26_6{Y: m.Ascent}
	for i, line := range lines {
		if i > 0 {
			dot.Y += m.Height
		}
		dot.X = 0
		prev, prevFace := rune(-1), font.Face(nil)
		for _, r := range line {
			f, adv := glyphFace(faces, r)
			if f == nil {
				s.logger.Debug("no glyph", slog.String("rune", string(r)))
				prev, prevFace = -1, nil
				continue
			}
			if f == prevFace && prev >= 0 {
				dot.X += f.Kern(prev, r)
			}
			if fn != nil {
				fn(glyph{face: f, dot: dot, r: r})
			}
			dot.X += adv
			prev, prevFace = r, f
		}
		if dot.X > width {
			width = dot.X
		}
	}
	height := m.Height.Mul(fixed.I(len(lines)-1)) + m.Ascent + m.Descent
	return image.Pt(width.Ceil(), height.Ceil()), nil
}

func glyphFace(faces []font.Face, r rune) (font.Face, fixed.Int26_6) {
	for _, f := range faces {
		if adv, ok := f.GlyphAdvance(r); ok {
			return f, adv
		}
	}
	return nil, 0
}

// Measure returns the size of the box DrawText would fill for text.
func (s *FontSet) Measure(text string, size float64) (image.Point, error) {
	return s.layout(text, size, nil)
}

// render draws text with its box's top-left corner at at. Glyph coverage is
// written directly as a shade of Foreground over Background; the existing pixels are not read.
// Pixels falling outside the measured box are dropped.
func (s *FontSet) render(dst draw.Image, at image.Point, text string, size float64) (image.Rectangle, error) {
	sz, err := s.Measure(text, size)
	if err != nil {
		return image.Rectangle{}, err
	}
	box := image.Rectangle{Min: at, Max: at.Add(sz)}
	origin := fixed.P(at.X, at.Y)
	_, err = s.layout(text, size, func(g glyph) {
		dr, mask, mp, _, ok := g.face.Glyph(origin.Add(g.dot), g.r)
		if !ok {
			return
		}
		clip := dr.Intersect(box)
		for y := clip.Min.Y; y < clip.Max.Y; y++ {
			for x := clip.Min.X; x < clip.Max.X; x++ {
				_, _, _, a := mask.At(mp.X+x-dr.Min.X, mp.Y+y-dr.Min.Y).RGBA()
				if a == 0 {
					continue
				}
				dst.Set(x, y, shade(uint8(a>>8)))
			}
		}
	})
	return box, err
}
