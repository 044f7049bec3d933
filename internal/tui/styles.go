package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/roster/internal/metrics"
	"github.com/naveenspark/roster/internal/screen"
	"github.com/naveenspark/roster/pkg/domain"
)

var (
	// Base styles: roster neutral palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa")).
			Bold(true)

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Search / accent
	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3b82f6"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	statValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	// Notices
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a"))

	// Status buckets; "other" catches values outside the enum.
	statusColors = map[string]lipgloss.Color{
		string(domain.StatusPlanning):  lipgloss.Color("#d4a844"),
		string(domain.StatusActive):    lipgloss.Color("#4ade80"),
		string(domain.StatusCompleted): lipgloss.Color("#60a0e0"),
		metrics.BucketOther:            lipgloss.Color("#8890a0"),
	}

	seniorityColors = map[string]lipgloss.Color{
		string(domain.SeniorityJunior): lipgloss.Color("#3ecce4"),
		string(domain.SeniorityMid):    lipgloss.Color("#b080d0"),
		string(domain.SenioritySenior): lipgloss.Color("#f0944a"),
		metrics.BucketOther:            lipgloss.Color("#8890a0"),
	}
)

// StatusStyle returns the style for a project status bucket.
func StatusStyle(s domain.ProjectStatus) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColors[metrics.StatusBucket(s)])
}

// SeniorityStyle returns the style for a seniority bucket.
func SeniorityStyle(s domain.Seniority) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(seniorityColors[metrics.SeniorityBucket(s)])
}

// statusLabel renders a status, showing unknown values under their bucket name.
func statusLabel(s domain.ProjectStatus) string {
	return StatusStyle(s).Render(metrics.StatusBucket(s))
}

func seniorityLabel(s domain.Seniority) string {
	return SeniorityStyle(s).Render(metrics.SeniorityBucket(s))
}

// loadStyle colors an allocation or utilization figure. Over 100 is allowed
// and flagged rather than rejected.
func loadStyle(pct int) lipgloss.Style {
	switch {
	case pct > 100:
		return failureStyle
	case pct >= 80:
		return warnStyle
	default:
		return successStyle
	}
}

// bar renders a fixed-width progress bar for pct (clamped to 0..100).
func bar(pct, width int) string {
	if width < 1 {
		width = 1
	}
	filled := min(max(pct, 0), 100) * width / 100
	return loadStyle(pct).Render(strings.Repeat("█", filled)) +
		metaStyle.Render(strings.Repeat("░", width-filled))
}

// stat renders a "label value" card for summary headers.
func stat(label string, value any) string {
	return statValueStyle.Render(fmt.Sprint(value)) + " " + dimStyle.Render(label)
}

func noticeStyle(l screen.Level) lipgloss.Style {
	switch l {
	case screen.Success:
		return successStyle
	case screen.Failure:
		return failureStyle
	}
	return dimStyle
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpView renders the help overlay.
func helpView() string {
	title := titleStyle.Render("R O S T E R")
	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"roster", "Open the dashboard (interactive TUI)"},
		{"roster login", "Sign in with email and password"},
		{"roster logout", "Clear your session"},
		{"roster whoami", "Show the signed-in user"},
		{"roster version", "Show version"},
	}
	keys := []struct{ key, desc string }{
		{"1-5", "switch screen"},
		{"j/k", "move"},
		{"enter", "open detail"},
		{"/", "search"},
		{"n", "new (managers)"},
		{"e", "edit"},
		{"d", "delete"},
		{"r", "refresh"},
		{"esc", "back"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)
	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}
	return b.String()
}
