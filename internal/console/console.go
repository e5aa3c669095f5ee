// Package console prints classified, colored messages for the
// interactive CLI. Every user-visible line goes through one of these
// helpers so failures always surface as a single tagged message.
package console

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	infoTag    = color.New(color.FgBlue).Sprint("[INFO]")
	successTag = color.New(color.FgGreen).Sprint("[SUCCESS]")
	warningTag = color.New(color.FgYellow, color.Bold).Sprint("[WARNING]")
	errorTag   = color.New(color.FgRed).Sprint("[ERROR]")

	header = color.New(color.FgYellow, color.Bold)
	rule   = color.New(color.FgCyan)
)

// Infof prints a blue [INFO] message.
func Infof(format string, a ...any) {
	fmt.Printf("%s %s\n", infoTag, fmt.Sprintf(format, a...))
}

// Successf prints a green [SUCCESS] message.
func Successf(format string, a ...any) {
	fmt.Printf("%s %s\n", successTag, fmt.Sprintf(format, a...))
}

// Warningf prints a yellow [WARNING] message.
func Warningf(format string, a ...any) {
	fmt.Printf("%s %s\n", warningTag, fmt.Sprintf(format, a...))
}

// Errorf prints a red [ERROR] message.
func Errorf(format string, a ...any) {
	fmt.Printf("%s %s\n", errorTag, fmt.Sprintf(format, a...))
}

// Headerf prints a bold yellow section header, for the post-boot summary.
func Headerf(format string, a ...any) {
	header.Printf(format, a...)
	fmt.Println()
}

// Rule prints a cyan banner line.
func Rule(s string) {
	rule.Println(s)
}
