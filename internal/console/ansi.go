package console

import "fmt"

// ANSI escape codes used by the renderers.
const (
	Reset        = "\033[0m"
	Bold         = "\033[1m"
	Dim          = "\033[2m"
	Red          = "\033[31m"
	Green        = "\033[32m"
	Yellow       = "\033[33m"
	Magenta      = "\033[35m"
	Cyan         = "\033[36m"
	BrightYellow = "\033[93m"
	BrightCyan   = "\033[96m"
)

// palette applies colors only when enabled so tests and pipes see plain text.
type palette bool

// Colorize wraps text with color and Reset.
//
// Postcondition: Returns text unchanged when the palette is disabled.
func (p palette) Colorize(color, text string) string {
	if !p {
		return text
	}
	return color + text + Reset
}

// Colorf formats then colorizes.
func (p palette) Colorf(color, format string, args ...any) string {
	return p.Colorize(color, fmt.Sprintf(format, args...))
}
