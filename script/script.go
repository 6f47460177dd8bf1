// Package script runs line oriented drawing commands against a canvas.
//
// Each line is one command followed by key=value arguments and, for commands
// that take one, free text. Lines are split like a shell would split them,
// so quotes group words:
//
//	# title
//	text y=120 size=64 "Morning"
//	button x=auto y=900 size=48 vgap=10 hgap=20 Refresh
//	image transparent=true s3://art/sun.png
//	partial
//
// Backslashes escape outside single quotes; inside them \n starts a new
// line of text. Missing x or y arguments center the drawing on that axis.
// Regions drawn since the last refresh accumulate and partial refreshes
// exactly their union.
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strings"

	"github.com/google/shlex"
	"github.com/jeffh/inkcanvas/canvas"
	"github.com/jeffh/inkcanvas/imgsrc"
)

var (
	ErrUnknownCommand = errors.New("script: unknown command")
	ErrBadArg         = errors.New("script: invalid argument")
	ErrMissingArg     = errors.New("script: missing argument")
	ErrUnexpectedText = errors.New("script: unexpected text")
)

// Error locates a failed command in its script.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Command is one parsed script line.
type Command struct {
	Name string
	Args Args
	// Text is the free text of text, button and image commands, with the
	// original words joined by single spaces.
	Text string
}

type signature struct {
	args []string
	text bool
}

var commands = map[string]signature{
	"clear":   {},
	"text":    {args: []string{"x", "y", "size"}, text: true},
	"rect":    {args: []string{"x", "y", "w", "h", "border"}},
	"fill":    {args: []string{"x", "y", "w", "h", "gray"}},
	"button":  {args: []string{"x", "y", "size", "vgap", "hgap"}, text: true},
	"image":   {args: []string{"x", "y", "transparent", "fit", "rotate"}, text: true},
	"partial": {},
	"full":    {},
}

// Defaults for omitted arguments.
const (
	DefaultFontSize = 32
	DefaultBorder   = 1
	DefaultGap      = 10
)

// Parse splits line into a command. Blank lines and comments parse to a nil
// command.
func Parse(line string) (*Command, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}
	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	name := strings.ToLower(tokens[0])
	sp, ok := commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, tokens[0])
	}

	cmd := &Command{Name: name, Args: Args{}}
	var words []string
	for _, tok := range tokens[1:] {
		if k, v, ok := strings.Cut(tok, "="); ok && sp.accepts(k) {
			cmd.Args[k] = v
			continue
		}
		words = append(words, tok)
	}
	if len(words) > 0 && !sp.text {
		return nil, fmt.Errorf("%w: %s takes no text, got %q", ErrUnexpectedText, name, strings.Join(words, " "))
	}
	cmd.Text = strings.Join(words, " ")
	if sp.text && cmd.Text == "" {
		return nil, fmt.Errorf("%w: %s needs text", ErrMissingArg, name)
	}
	return cmd, nil
}

func (s signature) accepts(k string) bool {
	for _, a := range s.args {
		if a == k {
			return true
		}
	}
	return false
}

// Result describes what a script did.
type Result struct {
	// Regions lists the rectangle of every draw, in order.
	Regions []canvas.Rect
	// Refreshes counts the refreshes requested.
	Refreshes int
}

// Runner executes commands against Canvas. A Runner keeps the region drawn
// since the last refresh across calls.
type Runner struct {
	Canvas *canvas.Canvas
	// Images loads the references of image commands. The zero Loader is used
	// when nil.
	Images *imgsrc.Loader
	Logger *slog.Logger

	dirty canvas.Rect
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Dirty returns the union of the regions drawn since the last refresh.
func (r *Runner) Dirty() canvas.Rect { return r.dirty }

// Run executes every line of src. It stops at the first failing line and
// returns what was done up to it along with an *Error.
func (r *Runner) Run(ctx context.Context, src io.Reader) (Result, error) {
	var res Result
	sc := bufio.NewScanner(src)
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		cmd, err := Parse(sc.Text())
		if err == nil && cmd != nil {
			err = r.Exec(ctx, cmd, &res)
		}
		if err != nil {
			return res, &Error{Line: n, Err: err}
		}
	}
	return res, sc.Err()
}

// Exec runs a single command, recording its effects in res.
func (r *Runner) Exec(ctx context.Context, cmd *Command, res *Result) error {
	c := r.Canvas
	var (
		drawn canvas.Rect
		err   error
	)
	switch cmd.Name {
	case "clear":
		c.Clear()
		drawn = canvas.RectOf(c.Bounds())
	case "text":
		drawn, err = r.text(cmd)
	case "rect":
		drawn, err = r.rect(cmd)
	case "fill":
		drawn, err = r.fill(cmd)
	case "button":
		drawn, err = r.button(cmd)
	case "image":
		drawn, err = r.image(ctx, cmd)
	case "partial":
		if r.dirty.Empty() {
			r.logger().Debug("nothing to refresh")
			return nil
		}
		if err := c.UpdatePartial(r.dirty); err != nil {
			return err
		}
		r.dirty = canvas.Rect{}
		res.Refreshes++
		return nil
	case "full":
		if err := c.UpdateFull(); err != nil {
			return err
		}
		r.dirty = canvas.Rect{}
		res.Refreshes++
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}
	if err != nil {
		return err
	}
	r.logger().Debug("drew", slog.String("cmd", cmd.Name), slog.String("rect", drawn.String()))
	res.Regions = append(res.Regions, drawn)
	r.dirty = r.dirty.Union(drawn)
	return nil
}

func (r *Runner) text(cmd *Command) (canvas.Rect, error) {
	pos, err := cmd.Args.Pos()
	if err != nil {
		return canvas.Rect{}, err
	}
	size, err := cmd.Args.Float("size", DefaultFontSize)
	if err != nil {
		return canvas.Rect{}, err
	}
	return r.Canvas.DrawText(pos, unescape(cmd.Text), size)
}

func (r *Runner) rect(cmd *Command) (canvas.Rect, error) {
	pos, err := cmd.Args.Pos()
	if err != nil {
		return canvas.Rect{}, err
	}
	size, err := cmd.Args.Size()
	if err != nil {
		return canvas.Rect{}, err
	}
	border, err := cmd.Args.Uint32("border", DefaultBorder)
	if err != nil {
		return canvas.Rect{}, err
	}
	return r.Canvas.DrawRect(pos, size, border)
}

func (r *Runner) fill(cmd *Command) (canvas.Rect, error) {
	pos, err := cmd.Args.Pos()
	if err != nil {
		return canvas.Rect{}, err
	}
	size, err := cmd.Args.Size()
	if err != nil {
		return canvas.Rect{}, err
	}
	gray, err := cmd.Args.Uint8("gray", 0)
	if err != nil {
		return canvas.Rect{}, err
	}
	return r.Canvas.FillRect(pos, size, color.Gray{Y: gray})
}

func (r *Runner) button(cmd *Command) (canvas.Rect, error) {
	pos, err := cmd.Args.Pos()
	if err != nil {
		return canvas.Rect{}, err
	}
	size, err := cmd.Args.Float("size", DefaultFontSize)
	if err != nil {
		return canvas.Rect{}, err
	}
	vgap, err := cmd.Args.Uint32("vgap", DefaultGap)
	if err != nil {
		return canvas.Rect{}, err
	}
	hgap, err := cmd.Args.Uint32("hgap", DefaultGap)
	if err != nil {
		return canvas.Rect{}, err
	}
	return r.Canvas.DrawButton(pos, unescape(cmd.Text), size, vgap, hgap)
}

func (r *Runner) image(ctx context.Context, cmd *Command) (canvas.Rect, error) {
	pos, err := cmd.Args.Pos()
	if err != nil {
		return canvas.Rect{}, err
	}
	rotate, err := cmd.Args.Int("rotate", 0)
	if err != nil {
		return canvas.Rect{}, err
	}
	loader := r.Images
	if loader == nil {
		loader = &imgsrc.Loader{Logger: r.Logger}
		r.Images = loader
	}
	img, err := loader.Load(ctx, cmd.Text)
	if err != nil {
		return canvas.Rect{}, err
	}
	if img, err = imgsrc.Rotate(img, rotate); err != nil {
		return canvas.Rect{}, err
	}
	if cmd.Args.Bool("fit") {
		img = imgsrc.Fit(img, r.Canvas.Bounds())
	}
	return r.Canvas.DrawImage(pos, img, cmd.Args.Bool("transparent"))
}

// unescape turns the two character sequence \n into a line break so
// multiline text fits on one script line.
func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
