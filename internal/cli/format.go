package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// Color functions - fatih/color disables itself when output is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)

	addColor = color.New(color.FgGreen)
	delColor = color.New(color.FgRed)
)

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(msg string) {
	_, _ = successColor.Printf("✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(msg string) {
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

// PrintError prints an error message to stderr
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// printReport colorizes a rendered mismatch report line by line:
// mismatch headers in bold, diff additions/removals in green/red,
// hunk markers in cyan.
func printReport(report string) {
	lines := strings.Split(report, "\n")
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			continue
		}

		trimmed := strings.TrimLeft(line, " ")
		switch {
		case !strings.HasPrefix(line, " ") && line != "":
			_, _ = headerColor.Println(line)
		case strings.HasPrefix(trimmed, "+++"), strings.HasPrefix(trimmed, "---"):
			_, _ = dimColor.Println(line)
		case strings.HasPrefix(trimmed, "@@"):
			_, _ = infoColor.Println(line)
		case strings.HasPrefix(trimmed, "+"):
			_, _ = addColor.Println(line)
		case strings.HasPrefix(trimmed, "-"):
			_, _ = delColor.Println(line)
		default:
			fmt.Println(line)
		}
	}
}
