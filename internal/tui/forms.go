package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/naveenspark/roster/internal/form"
)

// choice is one option of a cycling field.
type choice struct {
	value string
	label string
}

type formField struct {
	key     string // JSON field name, matches form.Errors
	label   string
	value   string
	choices []choice // non-nil for cycling fields
	hint    string
}

// formModel is the inline editor shared by create/edit screens. It keeps
// its input across failed submissions.
type formModel struct {
	title      string
	fields     []formField
	focus      int
	errs       form.Errors
	submitting bool
}

// formAction is what a keystroke asked the enclosing screen to do.
type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

func (f formModel) handleKey(key string) (formModel, formAction) {
	if f.submitting {
		return f, formNone
	}
	switch key {
	case "ctrl+s":
		return f, formSubmit
	case "esc":
		return f, formCancel
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case "enter":
		if f.focus == len(f.fields)-1 {
			return f, formSubmit
		}
		f.focus = (f.focus + 1) % len(f.fields)
	default:
		fld := &f.fields[f.focus]
		if fld.choices != nil {
			// Cycle choices with h/l or left/right
			switch key {
			case "l", "right", " ":
				fld.value = cycle(fld.choices, fld.value, 1)
			case "h", "left":
				fld.value = cycle(fld.choices, fld.value, -1)
			}
			return f, formNone
		}
		fld.value = editRune(fld.value, key)
	}
	return f, formNone
}

func cycle(choices []choice, current string, step int) string {
	if len(choices) == 0 {
		return current
	}
	idx := -1
	for i, c := range choices {
		if c.value == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if step > 0 {
			return choices[0].value
		}
		return choices[len(choices)-1].value
	}
	return choices[(idx+step+len(choices))%len(choices)].value
}

// value returns the trimmed value of field key.
func (f formModel) value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return strings.TrimSpace(fld.value)
		}
	}
	return ""
}

// number parses field key as an integer. Blank or malformed input is 0,
// which range validation then rejects where 0 is not allowed.
func (f formModel) number(key string) int {
	n, err := strconv.Atoi(f.value(key))
	if err != nil {
		return 0
	}
	return n
}

func (f formModel) list(key string) []string {
	return form.SplitList(f.value(key))
}

func (f formModel) View() string {
	var b strings.Builder
	if f.title != "" {
		b.WriteString(" " + titleStyle.Render(f.title) + "\n\n")
	}
	for i, fld := range f.fields {
		cursor := " "
		style := metaStyle
		if i == f.focus {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		label := style.Render(fmt.Sprintf("%-14s", fld.label))

		display := fld.value
		if fld.choices != nil {
			display = choiceLabel(fld.choices, fld.value)
			if i == f.focus {
				display += dimStyle.Render("  (h/l to cycle)")
			}
		} else if i == f.focus {
			display += accentStyle.Render("█")
		}
		if display == "" && fld.hint != "" {
			display = inputPlaceholderStyle.Render(fld.hint)
		}
		fmt.Fprintf(&b, " %s %s %s\n", cursor, label, display)
		if msg := f.errs.Get(fld.key); msg != "" {
			fmt.Fprintf(&b, "   %s %s\n", strings.Repeat(" ", 14), fieldErrorStyle.Render(msg))
		}
	}
	b.WriteString("\n")
	if f.submitting {
		b.WriteString(" " + dimStyle.Render("saving...") + "\n")
	}
	return b.String()
}

func choiceLabel(choices []choice, value string) string {
	for _, c := range choices {
		if c.value == value {
			return c.label
		}
	}
	if value == "" {
		return inputPlaceholderStyle.Render("select...")
	}
	return value
}

func (f formModel) helpKeys() string {
	return helpEntry("tab", "next") + "  " + helpEntry("h/l", "choose") + "  " + helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "cancel")
}
