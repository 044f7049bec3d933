package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/naveenspark/roster/internal/screen"
)

// noticeMsg asks the App to show a transient notice.
type noticeMsg struct {
	notice screen.Notice
}

// noticeExpiredMsg clears the notice with the given id if still shown.
type noticeExpiredMsg struct {
	id string
}

// navigateMsg asks the App to switch screens.
type navigateMsg struct {
	to view
}

func notify(n screen.Notice) tea.Cmd {
	return func() tea.Msg { return noticeMsg{notice: n} }
}

func navigate(to view) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

// parseDate accepts calendar dates and RFC 3339 timestamps.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDate renders an ISO date as "Jan 6, 2025", or a dash when absent.
// Unparseable input is shown as is.
func formatDate(s string) string {
	if s == "" {
		return "—"
	}
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// formatSince renders a timestamp relative to now, e.g. "3 days ago".
func formatSince(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return ""
	}
	return humanize.Time(t)
}

// dateRange renders "start → end", using "ongoing" for an open end.
func dateRange(start, end string) string {
	if end == "" {
		return formatDate(start) + " → ongoing"
	}
	return formatDate(start) + " → " + formatDate(end)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen < 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// pad right-pads s to width runes, truncating when longer.
func pad(s string, width int) string {
	s = truncStr(s, width)
	return s + strings.Repeat(" ", max(width-utf8.RuneCountInString(s), 0))
}

// skillList joins skills for display, or "none".
func skillList(skills []string) string {
	if len(skills) == 0 {
		return "none"
	}
	return strings.Join(skills, ", ")
}

func pct(n int) string { return fmt.Sprintf("%d%%", n) }

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
