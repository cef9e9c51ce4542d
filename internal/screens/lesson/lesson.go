// Package lesson implements the conversation screen that drives a
// tutor.Controller against the remote tutoring service.
package lesson

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stepwise/internal/screen"
	"github.com/abhisek/stepwise/internal/tutor"
	"github.com/abhisek/stepwise/internal/ui/components"
	"github.com/abhisek/stepwise/internal/ui/layout"
)

const scrollStep = 5

// LessonScreen shows the lesson log, practice set and answer input.
type LessonScreen struct {
	ctrl    *tutor.Controller
	remote  tutor.Remote
	timeout time.Duration
	input   components.TextInput

	// scroll is how many log lines the view is scrolled up from the bottom.
	scroll int
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.StatusProvider = (*LessonScreen)(nil)

// New creates a lesson screen. The lesson starts when the screen is shown.
func New(cfg tutor.Config, remote tutor.Remote, timeout time.Duration) *LessonScreen {
	return &LessonScreen{
		ctrl:    tutor.NewController(cfg),
		remote:  remote,
		timeout: timeout,
		input:   components.NewTextInput("Answer the checkpoint question...", 2000),
	}
}

// Controller exposes the underlying state machine.
func (s *LessonScreen) Controller() *tutor.Controller {
	return s.ctrl
}

func (s *LessonScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.lessonStep(s.ctrl.StartLesson()))
}

func (s *LessonScreen) Title() string {
	cfg := s.ctrl.Config()
	return string(cfg.Subject) + " · " + cfg.Topic
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answer"},
		{Key: "Ctrl+X", Description: "Confused"},
		{Key: "Ctrl+P", Description: "Practice"},
		{Key: "Ctrl+R", Description: "Restart"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonStepDoneMsg:
		if s.ctrl.ResolveLessonStep(msg.Result) {
			s.scroll = 0
		}
		return s, nil

	case practiceDoneMsg:
		s.ctrl.ResolvePractice(msg.Result)
		return s, nil

	case tea.KeyMsg:
		if cmd, handled := s.handleKey(msg); handled {
			return s, cmd
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		if answer := strings.TrimSpace(s.input.Value()); answer != "" {
			s.ctrl.SetAnswer(answer)
		}
		s.input.Reset()
		return s.lessonStep(s.ctrl.SendLessonStep(false)), true

	case "ctrl+r":
		s.input.Reset()
		s.scroll = 0
		return s.lessonStep(s.ctrl.StartLesson()), true

	case "ctrl+x":
		return s.lessonStep(s.ctrl.MarkConfused()), true

	case "ctrl+p":
		call, err := s.ctrl.GeneratePractice()
		if err != nil {
			return nil, true
		}
		return s.practice(call), true

	case "pgup", "ctrl+up":
		s.scroll += scrollStep
		return nil, true

	case "pgdown", "ctrl+down":
		s.scroll = max(s.scroll-scrollStep, 0)
		return nil, true
	}
	return nil, false
}

// lessonStep runs call off the UI goroutine.
func (s *LessonScreen) lessonStep(call tutor.LessonStepCall) tea.Cmd {
	remote, timeout := s.remote, s.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		return lessonStepDoneMsg{Result: tutor.RunLessonStep(ctx, remote, call)}
	}
}

func (s *LessonScreen) practice(call tutor.PracticeCall) tea.Cmd {
	remote, timeout := s.remote, s.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		return practiceDoneMsg{Result: tutor.RunPractice(ctx, remote, call)}
	}
}

func callContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}
