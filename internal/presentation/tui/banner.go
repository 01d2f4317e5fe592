package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the botforge banner and version to w.
// Colors are dropped automatically when w's terminal does not support them.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Warm gradient, top to bottom
	lines := []struct {
		text  string
		color string
	}{
		{" _           _    __                    ", "#fbbf24"},
		{"| |__   ___ | |_ / _| ___  _ __ __ _  ___ ", "#f59e0b"},
		{"| '_ \\ / _ \\| __| |_ / _ \\| '__/ _` |/ _ \\", "#f97316"},
		{"| |_) | (_) | |_|  _| (_) | | | (_| |  __/", "#ef4444"},
		{"|_.__/ \\___/ \\__|_|  \\___/|_|  \\__, |\\___|", "#e11d48"},
		{"                               |___/      ", "#be123c"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  telegram bot generator "+version).Faint())
	fmt.Fprintln(w)
}
