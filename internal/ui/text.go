package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Path formats file paths. Yellow, or 'single quotes' without color.
	Path = Formatter{color.New(color.FgYellow), "'", "'"}

	// Success formats success banners.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error formats error banners such as ERREUR.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning formats warning banners such as AVERTISSEMENT.
	Warning = Formatter{color.New(color.FgYellow), "", ""}
)
