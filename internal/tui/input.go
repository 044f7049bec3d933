package tui

import "unicode/utf8"

// maxInputLen is the maximum number of runes allowed in search and form inputs.
const maxInputLen = 500

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// searchBar is the "/" filter shared by list screens.
type searchBar struct {
	query  string
	active bool
}

// handleKey edits the query while active. It reports whether the key was
// consumed.
func (s searchBar) handleKey(key string) (searchBar, bool) {
	if !s.active {
		if key == "/" {
			s.active = true
			return s, true
		}
		return s, false
	}
	switch key {
	case "enter":
		s.active = false
	case "esc":
		s.active = false
		s.query = ""
	default:
		s.query = editRune(s.query, key)
	}
	return s, true
}

func (s searchBar) View() string {
	if !s.active && s.query == "" {
		return ""
	}
	if s.active {
		return " " + searchStyle.Render("/") + " " + s.query + accentStyle.Render("█") + "\n"
	}
	return " " + searchStyle.Render("/") + " " + dimStyle.Render(s.query) + "\n"
}
