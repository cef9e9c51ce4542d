// Package components holds small reusable widgets styled with the theme.
package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stepwise/internal/ui/theme"
)

// Menu is a vertical single-choice list.
type Menu struct {
	Label    string
	Items    []string
	Selected int
	Focused  bool
}

// NewMenu creates a menu with the item equal to current preselected.
func NewMenu(label string, items []string, current string) Menu {
	m := Menu{Label: label, Items: items}
	for i, it := range items {
		if it == current {
			m.Selected = i
			break
		}
	}
	return m
}

// Value returns the selected item, or "" for an empty menu.
func (m Menu) Value() string {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return ""
	}
	return m.Items[m.Selected]
}

// Update moves the selection on arrow keys while focused.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.Focused {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	}
	return m, nil
}

// View renders the label and items.
func (m Menu) View() string {
	var b strings.Builder
	if m.Focused {
		b.WriteString(theme.Label.Render(m.Label))
	} else {
		b.WriteString(theme.Blurred.Render(m.Label))
	}
	b.WriteString("\n")

	for i, item := range m.Items {
		switch {
		case i == m.Selected && m.Focused:
			b.WriteString(theme.Selected.Render("  ▸ " + item))
		case i == m.Selected:
			b.WriteString(theme.Unselected.Render("  • " + item))
		default:
			b.WriteString(theme.Blurred.Render("    " + item))
		}
		b.WriteString("\n")
	}
	return b.String()
}
