package console

import (
	"os"
	"strings"

	"github.com/moby/term"
)

// GetWidth returns the width of the terminal (from stderr -- stdout might be piped)
//
// Returns 0 if we're not in a terminal
func GetWidth() (uint16, error) {
	fd := os.Stderr.Fd()
	if term.IsTerminal(fd) {
		ws, err := term.GetWinsize(fd)
		if err != nil {
			return 0, err
		}
		return ws.Width, nil
	}
	return 0, nil
}

// Rule returns a horizontal line as wide as the terminal, or 40 columns when
// stderr isn't one.
func Rule() string {
	width, err := GetWidth()
	if err != nil || width == 0 {
		width = 40
	}
	return strings.Repeat("-", int(width))
}
