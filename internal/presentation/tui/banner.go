package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the application banner to w, coloured when w supports it.
func PrintBanner(w io.Writer, version string) {
	o := termenv.NewOutput(w)
	lines := []struct {
		text, color string
	}{
		{"     _                _           _", "#38bdf8"},
		{"    / \\   _ __   __ _| |_   _ ___(_)___", "#22d3ee"},
		{"   / _ \\ | '_ \\ / _` | | | | / __| / __|", "#2dd4bf"},
		{"  / ___ \\| | | | (_| | | |_| \\__ \\ \\__ \\", "#34d399"},
		{" /_/   \\_\\_| |_|\\__,_|_|\\__, |___/_|___/", "#4ade80"},
		{"                        |___/  tools", "#a3e635"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, o.String(l.text).Foreground(o.Color(l.color)))
	}
	fmt.Fprintln(w, o.String("  v"+version).Faint())
	fmt.Fprintln(w)
}

// Status renders a one-line status message: green when ok, red otherwise.
func Status(w io.Writer, ok bool, format string, args ...any) {
	o := termenv.NewOutput(w)
	mark, color := "✓", "#4ade80"
	if !ok {
		mark, color = "✗", "#f87171"
	}
	fmt.Fprintf(w, "%s %s\n", o.String(mark).Foreground(o.Color(color)).Bold(), fmt.Sprintf(format, args...))
}
