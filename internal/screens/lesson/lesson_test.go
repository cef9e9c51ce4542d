package lesson

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stepwise/internal/api"
	"github.com/abhisek/stepwise/internal/tutor"
)

// fakeRemote answers with numbered sessions and records every request.
type fakeRemote struct {
	mu        sync.Mutex
	lessons   []api.LessonStepRequest
	practices []api.PracticeRequest
	lessonErr error
}

func (f *fakeRemote) LessonStep(_ context.Context, req api.LessonStepRequest) (*api.LessonStepResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lessons = append(f.lessons, req)
	if f.lessonErr != nil {
		return nil, f.lessonErr
	}
	return &api.LessonStepResponse{
		SessionID:          "s1",
		Step:               "Objects group state and behavior.",
		CheckpointQuestion: "What is a class?",
		Recap:              "Review done.",
	}, nil
}

func (f *fakeRemote) Practice(_ context.Context, req api.PracticeRequest) (*api.PracticeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.practices = append(f.practices, req)
	return &api.PracticeResponse{
		SessionID: req.SessionID,
		Practice:  []api.PracticeItem{{Question: "Write a class Dog.", Kind: api.KindCode}},
	}, nil
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func enterKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func newScreen(remote tutor.Remote) *LessonScreen {
	return New(tutor.DefaultConfig(), remote, time.Second)
}

// press sends a key and runs the returned command, if any.
func press(t *testing.T, s *LessonScreen, key tea.KeyPressMsg) tea.Msg {
	t.Helper()
	_, cmd := s.Update(key)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestRestartRunsFirstStep(t *testing.T) {
	remote := &fakeRemote{}
	s := newScreen(remote)

	msg := press(t, s, ctrlKey('r'))
	if !s.ctrl.Busy() {
		t.Fatal("expected controller to be busy while the step is outstanding")
	}
	if _, ok := msg.(lessonStepDoneMsg); !ok {
		t.Fatalf("expected lessonStepDoneMsg, got %T", msg)
	}

	s.Update(msg)

	if s.ctrl.Busy() {
		t.Error("expected busy cleared after response")
	}
	msgs := s.ctrl.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Text != "Objects group state and behavior.\n\nWhat is a class?\nReview done." {
		t.Errorf("unexpected message text %q", msgs[0].Text)
	}
	if tutor.SessionID(s.ctrl.Session()) != "s1" {
		t.Errorf("expected session s1, got %q", tutor.SessionID(s.ctrl.Session()))
	}
	if !strings.Contains(s.HeaderStatus(), "Active") {
		t.Errorf("expected Active badge, got %q", s.HeaderStatus())
	}
}

func TestEnterSendsAnswer(t *testing.T) {
	remote := &fakeRemote{}
	s := newScreen(remote)
	s.Update(press(t, s, ctrlKey('r')))

	s.input.SetValue("  a blueprint  ")
	s.Update(press(t, s, enterKey()))

	if len(remote.lessons) != 2 {
		t.Fatalf("expected 2 lesson requests, got %d", len(remote.lessons))
	}
	req := remote.lessons[1]
	if req.LastAnswer != "a blueprint" {
		t.Errorf("expected trimmed answer, got %q", req.LastAnswer)
	}
	if req.SessionID != "s1" {
		t.Errorf("expected session id to be sent, got %q", req.SessionID)
	}
	if s.input.Value() != "" {
		t.Error("expected input cleared after submit")
	}
	if s.ctrl.LastAnswer() != "" {
		t.Error("expected last answer cleared after success")
	}
}

func TestConfusedSetsFlag(t *testing.T) {
	remote := &fakeRemote{}
	s := newScreen(remote)

	s.Update(press(t, s, ctrlKey('x')))

	if len(remote.lessons) != 1 || !remote.lessons[0].Confusion {
		t.Fatalf("expected one confused request, got %+v", remote.lessons)
	}
}

func TestPracticeWithoutSession(t *testing.T) {
	remote := &fakeRemote{}
	s := newScreen(remote)

	if msg := press(t, s, ctrlKey('p')); msg != nil {
		t.Fatalf("expected no command, got %T", msg)
	}
	if len(remote.practices) != 0 {
		t.Error("expected no practice request without a session")
	}
	if s.ctrl.Status() != tutor.StatusNeedSession {
		t.Errorf("expected guidance status, got %q", s.ctrl.Status())
	}
}

func TestPracticeAfterLesson(t *testing.T) {
	remote := &fakeRemote{}
	s := newScreen(remote)
	s.Update(press(t, s, ctrlKey('r')))

	s.Update(press(t, s, ctrlKey('p')))

	if len(remote.practices) != 1 || remote.practices[0].SessionID != "s1" {
		t.Fatalf("expected practice for s1, got %+v", remote.practices)
	}
	if got := s.ctrl.Practice(); len(got) != 1 || got[0].Kind != api.KindCode {
		t.Fatalf("unexpected practice %+v", got)
	}
	if !strings.Contains(s.View(100, 30), "Write a class Dog.") {
		t.Error("expected practice panel in view")
	}
}

func TestStaleRestartIsIgnored(t *testing.T) {
	remote := &fakeRemote{}
	s := newScreen(remote)

	first := press(t, s, ctrlKey('r'))
	second := press(t, s, ctrlKey('r'))

	s.Update(second)
	s.Update(first)

	if n := len(s.ctrl.Messages()); n != 1 {
		t.Fatalf("expected stale completion to be dropped, got %d messages", n)
	}
}

func TestFailureShowsDetail(t *testing.T) {
	remote := &fakeRemote{lessonErr: &api.Error{StatusCode: 500, Detail: "LLM unavailable"}}
	s := newScreen(remote)

	s.Update(press(t, s, ctrlKey('r')))

	if s.ctrl.Busy() {
		t.Error("expected busy cleared after failure")
	}
	if !strings.Contains(s.View(100, 30), "LLM unavailable") {
		t.Error("expected server detail in status line")
	}
	if !strings.Contains(s.HeaderStatus(), "Idle") {
		t.Errorf("expected Idle badge, got %q", s.HeaderStatus())
	}
}

func TestTypingGoesToInput(t *testing.T) {
	s := newScreen(&fakeRemote{})

	s.Update(tea.KeyPressMsg{Code: 'o', Text: "o"})
	s.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})

	if s.input.Value() != "ok" {
		t.Errorf("expected input 'ok', got %q", s.input.Value())
	}
}
