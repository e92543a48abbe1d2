// Package ui provides terminal styling for agentsync output.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/klauern/agentsync/internal/model"
)

// Color function types for styled output.
var (
	// Success is used for successful operations (green).
	Success = color.New(color.FgGreen).SprintFunc()
	// Error is used for errors and failures (red).
	Error = color.New(color.FgRed).SprintFunc()
	// Warning is used for warnings and cautions (yellow).
	Warning = color.New(color.FgYellow).SprintFunc()
	// Info is used for informational messages (cyan).
	Info = color.New(color.FgCyan).SprintFunc()
	// Bold is used for emphasis (bold white).
	Bold = color.New(color.Bold).SprintFunc()
	// Dim is used for secondary information (faint).
	Dim = color.New(color.Faint).SprintFunc()
)

// Status symbols with colors.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
)

// Change symbols, one per action.
const (
	SymbolCreate    = "+"
	SymbolUpdate    = "~"
	SymbolDelete    = "-"
	SymbolUnchanged = "="
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// StatusSuccess returns a green checkmark with optional message.
func StatusSuccess(msg string) string {
	if msg == "" {
		return Success(SymbolSuccess)
	}
	return Success(SymbolSuccess) + " " + msg
}

// StatusError returns a red X with optional message.
func StatusError(msg string) string {
	if msg == "" {
		return Error(SymbolError)
	}
	return Error(SymbolError) + " " + msg
}

// StatusWarning returns a yellow warning with optional message.
func StatusWarning(msg string) string {
	if msg == "" {
		return Warning(SymbolWarning)
	}
	return Warning(SymbolWarning) + " " + msg
}

// StatusSkipped returns a dimmed skip symbol with optional message.
func StatusSkipped(msg string) string {
	if msg == "" {
		return Dim(SymbolSkipped)
	}
	return Dim(SymbolSkipped) + " " + msg
}

// Change renders one change line: a colored action symbol and the path.
func Change(action model.Action, path string) string {
	switch action {
	case model.ActionCreate:
		return Success(SymbolCreate) + " " + path
	case model.ActionUpdate:
		return Warning(SymbolUpdate) + " " + path
	case model.ActionDelete:
		return Error(SymbolDelete) + " " + path
	default:
		return Dim(SymbolUnchanged + " " + path)
	}
}

// Heading renders a section title, plain when colors are off.
func Heading(text string) string {
	if !IsColorEnabled() {
		return text
	}
	return headingStyle.Render(text)
}

// DisableColors disables all color output.
// This is useful for piping output or for users who prefer no colors.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}

// ConfigureColors turns colors off when asked to, when NO_COLOR is set, or
// when f is not a terminal.
func ConfigureColors(f *os.File, disable bool) {
	if disable || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(f.Fd())) {
		DisableColors()
	}
}
