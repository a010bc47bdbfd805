package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// Render writes a human-readable form of err to w, colorized when w
// is a terminal. Internal invariant violations are labeled as compiler
// bugs rather than user errors.
func Render(w io.Writer, err error) {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	label := "error"
	paint := ansiRed
	if IsInternal(err) {
		label = "internal compiler error"
		paint = ansiYellow
	}
	if color {
		fmt.Fprintf(w, "%s%s:%s %v\n", paint, label, ansiReset, err)
	} else {
		fmt.Fprintf(w, "%s: %v\n", label, err)
	}
}
