package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ASCII banner for the application
const ASCIIBanner = `
   __      __ _  _     _  ____
   \ \    / /(_)| |__ (_)|  __| __ _  _  _  _ _   __ _
    \ \/\/ / | || / / | ||  _| / _' || || || ' \ / _' |
     \_/\_/  |_||_\_\ |_||_|   \__,_| \_,_||_||_|\__,_|

         collateral adjective image pipeline
`

var (
	quietMode bool
	noColor   bool
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if noColor {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// SetQuietMode suppresses all decorative output
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// IsQuietMode reports whether decorative output is suppressed
func IsQuietMode() bool {
	return quietMode
}

// SetNoColor disables ANSI colors
func SetNoColor(disabled bool) {
	noColor = disabled
}

// Width returns the terminal width, falling back to 80 when stdout is not
// a terminal
func Width() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// PrintBanner prints the ASCII banner with color
func PrintBanner() {
	if quietMode {
		return
	}
	fmt.Print(Cyan(ASCIIBanner))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(fmt.Sprintf(msg, args...)))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quietMode {
		return
	}
	fmt.Println(Green(msg))
}

// PrintInfo prints a labeled value in cyan
func PrintInfo(label string, value string) {
	if quietMode {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Yellow(fmt.Sprintf(msg, args...)))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quietMode {
		return
	}
	fmt.Println(Magenta(msg))
}
