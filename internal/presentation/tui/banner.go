package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the deepwatch ASCII art banner.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"     _                              _       _     ", "#818cf8"},
		{"  __| | ___  ___ _ ____      ____ _| |_ ___| |__  ", "#a78bfa"},
		{" / _` |/ _ \\/ _ \\ '_ \\ \\ /\\ / / _` | __/ __| '_ \\ ", "#c084fc"},
		{"| (_| |  __/  __/ |_) \\ V  V / (_| | || (__| | | |", "#e879f9"},
		{" \\__,_|\\___|\\___| .__/ \\_/\\_/ \\__,_|\\__\\___|_| |_|", "#f472b6"},
		{"                |_|                               ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
