package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the hearth banner with the running version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	lines := []struct {
		text  string
		color string
	}{
		{"  _                     _   _     ", "#fbbf24"},
		{" | |__   ___  __ _ _ __| |_| |__  ", "#f59e0b"},
		{" | '_ \\ / _ \\/ _` | '__| __| '_ \\ ", "#f97316"},
		{" | | | |  __/ (_| | |  | |_| | | |", "#ef4444"},
		{" |_| |_|\\___|\\__,_|_|   \\__|_| |_|", "#dc2626"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
