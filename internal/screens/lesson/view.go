package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/stepwise/internal/tutor"
	"github.com/abhisek/stepwise/internal/ui/theme"
)

// HeaderStatus shows the session phase and a busy marker.
func (s *LessonScreen) HeaderStatus() string {
	var badge string
	if s.ctrl.Phase() == tutor.PhaseActive {
		badge = theme.BadgeActive.Render("● Active")
	} else {
		badge = theme.BadgeIdle.Render("○ Idle")
	}
	if s.ctrl.Busy() {
		badge += theme.Busy.Render("  working…")
	}
	return badge
}

func (s *LessonScreen) View(width, height int) string {
	inner := max(width-4, 20)
	s.input.SetWidth(inner - 4)

	practice := s.renderPractice(inner)
	status := s.renderStatus()

	logHeight := height - 3 // input, status, spacer
	if practice != "" {
		logHeight -= lipgloss.Height(practice) + 1
	}
	logHeight = max(logHeight, 3)

	var b strings.Builder
	b.WriteString(s.renderLog(inner, logHeight))
	b.WriteString("\n")
	if practice != "" {
		b.WriteString(practice)
		b.WriteString("\n")
	}
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(s.input.View())

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

// renderLog renders the tail of the lesson log that fits in height lines,
// offset by the current scroll position.
func (s *LessonScreen) renderLog(width, height int) string {
	msgs := s.ctrl.Messages()
	if len(msgs) == 0 {
		hint := "Press Ctrl+R to start the lesson."
		if s.ctrl.Busy() {
			hint = "Preparing your first step…"
		}
		return lipgloss.NewStyle().Height(height).Render(theme.Hint.Render(hint))
	}

	card := theme.TutorMessage.Width(width)
	blocks := make([]string, len(msgs))
	for i, m := range msgs {
		blocks[i] = card.Render(m.Text)
	}
	lines := strings.Split(strings.Join(blocks, "\n"), "\n")

	s.scroll = min(s.scroll, max(len(lines)-height, 0))
	end := len(lines) - s.scroll
	start := max(end-height, 0)

	return lipgloss.NewStyle().Height(height).Render(strings.Join(lines[start:end], "\n"))
}

func (s *LessonScreen) renderPractice(width int) string {
	items := s.ctrl.Practice()
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Label.Render("Practice"))
	for i, it := range items {
		b.WriteString("\n")
		line := fmt.Sprintf("%d. %s %s", i+1, theme.PracticeKind.Render("["+it.Kind+"]"), it.Question)
		b.WriteString(lipgloss.NewStyle().Width(width).Render(line))
	}
	return b.String()
}

func (s *LessonScreen) renderStatus() string {
	switch {
	case s.ctrl.Busy():
		return theme.Busy.Render("Thinking…")
	case s.ctrl.Status() != "":
		return theme.StatusError.Render(s.ctrl.Status())
	default:
		return ""
	}
}
