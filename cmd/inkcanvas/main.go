package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jeffh/inkcanvas/canvas"
	"github.com/jeffh/inkcanvas/cli"
	"github.com/jeffh/inkcanvas/imgsrc"
	"github.com/jeffh/inkcanvas/script"
	_ "go.uber.org/automaxprocs"
)

func main() {
	var (
		dev         cli.DeviceConfig
		text        string
		button      string
		size        float64
		x, y        int
		imageRef    string
		transparent bool
		fit         bool
		rotate      int
		scriptPath  string
		clearFirst  bool
		full        bool
		verbose     bool
		noColor     bool
	)

	dev.SetFlags(nil)
	flag.StringVar(&text, "text", "", "Text to draw")
	flag.StringVar(&button, "button", "", "Text to draw as a button")
	flag.Float64Var(&size, "size", script.DefaultFontSize, "Font size in pixels for -text and -button")
	flag.IntVar(&x, "x", -1, "Left edge of the drawing, centered when negative")
	flag.IntVar(&y, "y", -1, "Top edge of the drawing, centered when negative")
	flag.StringVar(&imageRef, "image", "", "Image to draw, a path or s3://bucket/key")
	flag.BoolVar(&transparent, "transparent", false, "Blend -image with the display using its alpha channel")
	flag.BoolVar(&fit, "fit", false, "Shrink -image to fit the display")
	flag.IntVar(&rotate, "rotate", 0, "Rotate -image clockwise by this many degrees")
	flag.StringVar(&scriptPath, "script", "", "Run drawing commands from this file, - for stdin")
	flag.BoolVar(&clearFirst, "clear", false, "Clear the display before drawing")
	flag.BoolVar(&full, "full", false, "Refresh the whole display instead of just what was drawn")
	flag.BoolVar(&verbose, "v", false, "Log refreshes and font lookups")
	flag.BoolVar(&noColor, "no-color", false, "Disable colored output")

	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(w, "Draws on an e-ink display and refreshes the part that changed.\n\n")
		fmt.Fprintf(w, "Script commands (one per line, x and y default to centered):\n")
		fmt.Fprintf(w, "\tclear\n")
		fmt.Fprintf(w, "\ttext x= y= size= TEXT\n")
		fmt.Fprintf(w, "\trect x= y= w= h= border=\n")
		fmt.Fprintf(w, "\tfill x= y= w= h= gray=\n")
		fmt.Fprintf(w, "\tbutton x= y= size= vgap= hgap= TEXT\n")
		fmt.Fprintf(w, "\timage x= y= transparent= fit= rotate= PATH_OR_S3_URL\n")
		fmt.Fprintf(w, "\tpartial     refresh everything drawn since the last refresh\n")
		fmt.Fprintf(w, "\tfull        refresh the whole display\n")
		fmt.Fprintf(w, "\nOPTIONS:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cli.SupportsColor(noColor)
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c, err := dev.Open(logger)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	r := &script.Runner{
		Canvas: c,
		Images: &imgsrc.Loader{Logger: logger},
		Logger: logger,
	}
	var res script.Result

	run := func(what string, cmd *script.Command) {
		if err := r.Exec(ctx, cmd, &res); err != nil {
			cli.Failed(os.Stderr, what, err)
			os.Exit(1)
		}
		if n := len(res.Regions); n > 0 && cmd.Name != "partial" && cmd.Name != "full" {
			cli.Drew(os.Stdout, what, res.Regions[n-1])
		}
	}

	pos := script.Args{}
	if x >= 0 {
		pos["x"] = fmt.Sprint(x)
	}
	if y >= 0 {
		pos["y"] = fmt.Sprint(y)
	}
	with := func(extra map[string]string) script.Args {
		a := script.Args{}
		for k, v := range pos {
			a[k] = v
		}
		for k, v := range extra {
			a[k] = v
		}
		return a
	}

	if clearFirst {
		run("clear", &script.Command{Name: "clear", Args: script.Args{}})
	}
	if imageRef != "" {
		run("image", &script.Command{Name: "image", Text: imageRef, Args: with(map[string]string{
			"transparent": fmt.Sprint(transparent),
			"fit":         fmt.Sprint(fit),
			"rotate":      fmt.Sprint(rotate),
		})})
	}
	if text != "" {
		run("text", &script.Command{Name: "text", Text: text, Args: with(map[string]string{"size": fmt.Sprint(size)})})
	}
	if button != "" {
		run("button", &script.Command{Name: "button", Text: button, Args: with(map[string]string{"size": fmt.Sprint(size)})})
	}
	if scriptPath != "" {
		src := os.Stdin
		if scriptPath != "-" {
			f, err := os.Open(scriptPath)
			if err != nil {
				log.Fatal(err)
			}
			defer f.Close()
			src = f
		}
		sres, err := r.Run(ctx, src)
		for _, region := range sres.Regions {
			cli.Drew(os.Stdout, scriptPath, region)
		}
		if err != nil {
			cli.Failed(os.Stderr, scriptPath, err)
			os.Exit(1)
		}
	}

	switch {
	case full || clearFirst:
		run("full refresh", &script.Command{Name: "full", Args: script.Args{}})
		cli.Drew(os.Stdout, "full refresh", canvas.RectOf(c.Bounds()))
	case !r.Dirty().Empty():
		dirty := r.Dirty()
		run("partial refresh", &script.Command{Name: "partial", Args: script.Args{}})
		cli.Drew(os.Stdout, "partial refresh", dirty)
	}

	if err := dev.WritePreview(c); err != nil {
		cli.Failed(os.Stderr, "preview", err)
		os.Exit(1)
	}
}
