// Package styles provides reusable lipgloss styles for CLI output.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9"))

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	ListURL = lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))
)

// CheckResult is one line of a doctor report.
type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

// RenderChecks formats doctor check results, one per line.
func RenderChecks(results []CheckResult) string {
	var b strings.Builder
	for _, r := range results {
		mark := Success.Render("✓")
		if !r.OK {
			mark = Error.Render("✗")
		}
		fmt.Fprintf(&b, "  %s %-28s %s\n", mark, r.Name, Subtle.Render(r.Detail))
	}
	return b.String()
}
