// Package ui renders CLI output lines.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/specscribe/core/pkg/domain"
)

var (
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	writtenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	fatalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// WarningLine prints one recoverable warning.
func WarningLine(w io.Writer, warning domain.Warning) {
	fmt.Fprintln(w, warnStyle.Render("warn")+"  "+warning.String())
}

// FeatureLine prints one emitted feature.
func FeatureLine(w io.Writer, name string, scenarios int) {
	fmt.Fprintf(w, "%s  %s (%d scenarios)\n", writtenStyle.Render("spec"), name, scenarios)
}

// SummaryLine prints the run summary.
func SummaryLine(w io.Writer, features, scenarios, warnings int) {
	fmt.Fprintf(w, "generated %d features, %d scenarios, %d warnings\n", features, scenarios, warnings)
}

// FatalLine prints a fatal failure.
func FatalLine(w io.Writer, err error) {
	fmt.Fprintln(w, fatalStyle.Render("error")+"  "+err.Error())
}
