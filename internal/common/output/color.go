package output

import (
	"io"

	"github.com/fatih/color"
)

var (
	// Message colors
	Success = color.New(color.FgGreen)
	Info    = color.New(color.FgCyan)

	// Branch names in status lines
	Branch = color.New(color.FgBlue, color.Bold)
)

// Writer receives status lines; swapped out in tests
var Writer io.Writer = color.Output

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// Quiet drops status lines
func Quiet() {
	Writer = io.Discard
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Fprintf(Writer, "✓ "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Fprintf(Writer, "→ "+format+"\n", args...)
}

// FormatBranch formats a branch name with color
func FormatBranch(name string) string {
	return Branch.Sprint(name)
}
