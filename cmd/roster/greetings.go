package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cmdStyle   = lipgloss.NewStyle().Bold(true)
)

func printHelp(w io.Writer) {
	commands := []struct{ cmd, desc string }{
		{"roster", "Open the dashboard (interactive TUI)"},
		{"roster login", "Sign in with email and password"},
		{"roster logout", "Clear your session"},
		{"roster whoami", "Show the signed-in user"},
		{"roster version", "Show version"},
		{"roster help", "You are here"},
	}
	env := []struct{ name, desc string }{
		{"ROSTER_API_URL", "API base URL (default http://localhost:5000)"},
		{"ROSTER_WEB_URL", "Web app URL for \"open in browser\""},
		{"ROSTER_TOKEN", "Session token, overrides ~/.roster/token"},
		{"ROSTER_CONFIG", "YAML config file (default ~/.roster/config.yaml)"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  Commands:\n", titleStyle.Render("R O S T E R"))
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), dimStyle.Render(c.desc))
	}
	fmt.Fprintf(w, "\n  Environment:\n")
	for _, e := range env {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", e.name)), dimStyle.Render(e.desc))
	}
	fmt.Fprintln(w)
}

// printSignedOut tells the user how to get a session. reason may be empty.
func printSignedOut(w io.Writer, reason string) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("ROSTER"))
	if reason != "" {
		fmt.Fprintf(w, "%s\n", reason)
	}
	fmt.Fprintf(w, "%s\n\n", dimStyle.Render("To sign in: roster login"))
}
