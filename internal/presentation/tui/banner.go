package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the CLI banner to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text, color string
	}{
		{`  __  __            _             `, "#34d399"},
		{` |  \/  | __ _ _ __| | _______   __`, "#2dd4bf"},
		{` | |\/| |/ _' | '__| |/ / _ \ \ / /`, "#22d3ee"},
		{` | |  | | (_| | |  |   < (_) \ V / `, "#38bdf8"},
		{` |_|  |_|\__,_|_|  |_|\_\___/ \_/  `, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  diabetes progression simulator "+version).Faint())
	fmt.Fprintln(w)
}
