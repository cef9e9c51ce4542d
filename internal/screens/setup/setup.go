// Package setup implements the screen where the learner picks a subject,
// level and topic before starting a lesson.
package setup

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stepwise/internal/api"
	"github.com/abhisek/stepwise/internal/router"
	"github.com/abhisek/stepwise/internal/screen"
	"github.com/abhisek/stepwise/internal/tutor"
	"github.com/abhisek/stepwise/internal/ui/components"
	"github.com/abhisek/stepwise/internal/ui/layout"
	"github.com/abhisek/stepwise/internal/ui/theme"
)

type field int

const (
	fieldSubject field = iota
	fieldLevel
	fieldTopic
	fieldStart
	fieldCount
)

// LessonFactory builds the lesson screen for a chosen configuration.
type LessonFactory func(cfg tutor.Config) screen.Screen

// SetupScreen collects the lesson configuration.
type SetupScreen struct {
	subjects components.Menu
	levels   components.Menu
	topic    components.TextInput
	start    components.Button

	focus     field
	base      tutor.Config
	newLesson LessonFactory
	errMsg    string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup screen prefilled from cfg.
func New(cfg tutor.Config, newLesson LessonFactory) *SetupScreen {
	subjects := make([]string, len(api.Subjects))
	for i, s := range api.Subjects {
		subjects[i] = string(s)
	}
	levels := make([]string, len(api.Levels))
	for i, l := range api.Levels {
		levels[i] = string(l)
	}

	s := &SetupScreen{
		subjects:  components.NewMenu("Subject", subjects, string(cfg.Subject)),
		levels:    components.NewMenu("Level", levels, string(cfg.Level)),
		topic:     components.NewTextInput("e.g. Classes and Objects", 120),
		start:     components.Button{Label: "Start lesson"},
		base:      cfg,
		newLesson: newLesson,
	}
	s.topic.SetValue(cfg.Topic)
	s.setFocus(fieldSubject)
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return s.topic.Init()
}

func (s *SetupScreen) Title() string {
	return "New Lesson"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Config returns the configuration currently selected on screen.
func (s *SetupScreen) Config() tutor.Config {
	cfg := s.base
	cfg.Subject = api.Subject(s.subjects.Value())
	cfg.Level = api.Level(s.levels.Value())
	cfg.Topic = strings.TrimSpace(s.topic.Value())
	return cfg
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab":
			return s, s.setFocus((s.focus + 1) % fieldCount)
		case "shift+tab":
			return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
		case "enter":
			if s.focus == fieldSubject || s.focus == fieldLevel {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldSubject:
		s.subjects, cmd = s.subjects.Update(msg)
	case fieldLevel:
		s.levels, cmd = s.levels.Update(msg)
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	}
	return s, cmd
}

func (s *SetupScreen) submit() tea.Cmd {
	cfg := s.Config()
	if cfg.Topic == "" {
		s.errMsg = "Type a topic to study."
		return s.setFocus(fieldTopic)
	}
	if err := cfg.Validate(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	lesson := s.newLesson(cfg)
	return func() tea.Msg { return router.PushScreenMsg{Screen: lesson} }
}

func (s *SetupScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.subjects.Focused = f == fieldSubject
	s.levels.Focused = f == fieldLevel
	s.start.Focused = f == fieldStart
	if f == fieldTopic {
		return s.topic.Focus()
	}
	s.topic.Blur()
	return nil
}

func (s *SetupScreen) View(width, height int) string {
	menus := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(32).Render(s.subjects.View()),
		s.levels.View(),
	)

	label := theme.Blurred.Render("Topic")
	if s.focus == fieldTopic {
		label = theme.Label.Render("Topic")
	}
	s.topic.SetWidth(min(60, max(width-12, 10)))

	var b strings.Builder
	b.WriteString(theme.Title.Render("What would you like to learn?"))
	b.WriteString("\n\n")
	b.WriteString(menus)
	b.WriteString("\n")
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(s.topic.View())
	b.WriteString("\n\n")
	b.WriteString(s.start.View())
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.StatusError.Render(s.errMsg))
	}

	return lipgloss.NewStyle().Padding(1, 4).Render(b.String())
}
