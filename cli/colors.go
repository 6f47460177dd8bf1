package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	errColor  = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
	nameColor = color.New(color.FgCyan)
)

// SupportsColor turns colored output off unless stdout is a terminal.
func SupportsColor(noColorHint bool) {
	fd := os.Stdout.Fd()
	color.NoColor = noColorHint || (!isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd))
}

// Drew prints one line about a finished draw or refresh.
func Drew(w io.Writer, what string, detail fmt.Stringer) {
	fmt.Fprintf(w, "%s %s %s\n", okColor.Sprint("ok"), nameColor.Sprint(what), dimColor.Sprint(detail))
}

// Failed prints err, prefixed with what was being done.
func Failed(w io.Writer, what string, err error) {
	fmt.Fprintf(w, "%s %s: %s\n", errColor.Sprint("error"), nameColor.Sprint(what), err)
}
