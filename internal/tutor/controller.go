// Package tutor implements the session controller that drives a tutoring
// conversation. The controller owns all UI-facing state and performs no I/O:
// operations return calls to be executed by a Remote, and results are fed
// back through the Apply and Fail methods.
package tutor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abhisek/stepwise/internal/api"
)

// Status strings shown to the user when no server detail is available.
const (
	StatusLessonFailed   = "Could not load the next lesson step. Please try again."
	StatusPracticeFailed = "Could not generate practice questions. Please try again."
	StatusNeedSession    = "Start a lesson first, then ask for practice questions."
)

// ErrNoSession is returned by GeneratePractice when no lesson has started.
var ErrNoSession = errors.New("no active session")

// Role is the author of a chat message.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// ChatMessage is one entry in the lesson log.
type ChatMessage struct {
	Role Role
	Text string
}

// Config is the lesson configuration selected by the user.
type Config struct {
	Subject api.Subject
	Topic   string
	Level   api.Level

	// Misconceptions are optional hints forwarded with lesson steps.
	Misconceptions []string
}

// Validate checks that subject and level belong to their enumerations.
func (c Config) Validate() error {
	if !slices.Contains(api.Subjects, c.Subject) {
		return fmt.Errorf("unknown subject %q", c.Subject)
	}
	if !slices.Contains(api.Levels, c.Level) {
		return fmt.Errorf("unknown level %q", c.Level)
	}
	return nil
}

// DefaultConfig returns the configuration the client starts with.
func DefaultConfig() Config {
	return Config{
		Subject: api.SubjectJava,
		Topic:   "Classes and Objects",
		Level:   api.LevelBeginner,
	}
}

// Operation identifies the kind of remote call a ticket belongs to.
type Operation int

const (
	OpLessonStep Operation = iota
	OpPractice
)

func (o Operation) String() string {
	switch o {
	case OpLessonStep:
		return "lesson-step"
	case OpPractice:
		return "practice"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// Ticket identifies one issued call. Only the latest ticket per operation
// is allowed to mutate controller state when it completes.
type Ticket struct {
	Op  Operation
	Gen uint64
}

// LessonStepCall is a lesson-step request ready to be sent.
type LessonStepCall struct {
	Ticket  Ticket
	Request api.LessonStepRequest
}

// PracticeCall is a practice request ready to be sent.
type PracticeCall struct {
	Ticket  Ticket
	Request api.PracticeRequest
}

// Controller is the tutoring session state machine.
type Controller struct {
	config     Config
	session    Session
	messages   []ChatMessage
	practice   []api.PracticeItem
	lastAnswer string
	status     string

	gen      uint64
	latest   map[Operation]uint64
	inflight map[Operation]bool
}

// NewController creates an idle controller with the given configuration.
func NewController(cfg Config) *Controller {
	return &Controller{
		config:   cfg,
		session:  NoSession{},
		latest:   make(map[Operation]uint64),
		inflight: make(map[Operation]bool),
	}
}

// Config returns the current lesson configuration.
func (c *Controller) Config() Config { return c.config }

// SetConfig replaces the lesson configuration. The session is kept; the
// next call sends the new values alongside the existing session id.
func (c *Controller) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// SetTopic changes only the free-text topic.
func (c *Controller) SetTopic(topic string) { c.config.Topic = topic }

// SetAnswer stores the learner's answer for the next lesson step.
func (c *Controller) SetAnswer(answer string) { c.lastAnswer = answer }

// LastAnswer returns the buffered answer.
func (c *Controller) LastAnswer() string { return c.lastAnswer }

// Session returns the current session.
func (c *Controller) Session() Session { return c.session }

// Phase reports whether a session is active.
func (c *Controller) Phase() Phase {
	if _, ok := c.session.(ActiveSession); ok {
		return PhaseActive
	}
	return PhaseIdle
}

// Messages returns a copy of the lesson log.
func (c *Controller) Messages() []ChatMessage { return slices.Clone(c.messages) }

// Practice returns a copy of the current practice set.
func (c *Controller) Practice() []api.PracticeItem { return slices.Clone(c.practice) }

// Status returns the user-visible status line.
func (c *Controller) Status() string { return c.status }

// Busy reports whether any current call is outstanding.
func (c *Controller) Busy() bool {
	for _, v := range c.inflight {
		if v {
			return true
		}
	}
	return false
}

// StartLesson resets the conversation and issues the first lesson step.
// Any outstanding practice call is abandoned along with the old session.
func (c *Controller) StartLesson() LessonStepCall {
	c.messages = nil
	c.practice = nil
	c.session = NoSession{}
	c.lastAnswer = ""
	c.status = ""
	c.cancel(OpPractice)
	return c.SendLessonStep(false)
}

// SendLessonStep issues a lesson step. It has no preconditions: without a
// session it simply starts one.
func (c *Controller) SendLessonStep(confusion bool) LessonStepCall {
	req := api.LessonStepRequest{
		Subject:        string(c.config.Subject),
		Topic:          c.config.Topic,
		Level:          string(c.config.Level),
		SessionID:      SessionID(c.session),
		LastAnswer:     c.lastAnswer,
		Confusion:      confusion,
		Misconceptions: slices.Clone(c.config.Misconceptions),
	}
	return LessonStepCall{Ticket: c.issue(OpLessonStep), Request: req}
}

// MarkConfused asks the server to re-explain the current step.
func (c *Controller) MarkConfused() LessonStepCall {
	return c.SendLessonStep(true)
}

// GeneratePractice issues a practice request for the active session. With
// no session it sets a guidance status and returns ErrNoSession.
func (c *Controller) GeneratePractice() (PracticeCall, error) {
	switch s := c.session.(type) {
	case ActiveSession:
		req := api.PracticeRequest{
			Subject:   string(c.config.Subject),
			Topic:     c.config.Topic,
			Level:     string(c.config.Level),
			SessionID: s.ID,
		}
		return PracticeCall{Ticket: c.issue(OpPractice), Request: req}, nil
	default:
		c.status = StatusNeedSession
		return PracticeCall{}, ErrNoSession
	}
}

// ApplyLessonStep merges a successful lesson-step response. It returns
// false, leaving state untouched, when t is not the latest lesson ticket.
func (c *Controller) ApplyLessonStep(t Ticket, resp *api.LessonStepResponse) bool {
	if !c.settle(t) {
		return false
	}
	c.adopt(resp.SessionID)
	c.messages = append(c.messages, ChatMessage{
		Role: RoleAssistant,
		Text: FormatStep(resp.Step, resp.CheckpointQuestion, resp.Recap),
	})
	c.lastAnswer = ""
	c.status = ""
	return true
}

// FailLessonStep records a failed lesson step.
func (c *Controller) FailLessonStep(t Ticket, err error) bool {
	if !c.settle(t) {
		return false
	}
	c.status = statusFor(err, StatusLessonFailed)
	return true
}

// ApplyPractice replaces the practice set with a successful response.
func (c *Controller) ApplyPractice(t Ticket, resp *api.PracticeResponse) bool {
	if !c.settle(t) {
		return false
	}
	c.adopt(resp.SessionID)
	c.practice = slices.Clone(resp.Practice)
	if c.practice == nil {
		c.practice = []api.PracticeItem{}
	}
	c.status = ""
	return true
}

// FailPractice records a failed practice request.
func (c *Controller) FailPractice(t Ticket, err error) bool {
	if !c.settle(t) {
		return false
	}
	c.status = statusFor(err, StatusPracticeFailed)
	return true
}

func (c *Controller) issue(op Operation) Ticket {
	c.gen++
	c.latest[op] = c.gen
	c.inflight[op] = true
	return Ticket{Op: op, Gen: c.gen}
}

// settle consumes t if it is the latest outstanding ticket for its operation.
func (c *Controller) settle(t Ticket) bool {
	if !c.inflight[t.Op] || c.latest[t.Op] != t.Gen {
		return false
	}
	c.inflight[t.Op] = false
	return true
}

func (c *Controller) cancel(op Operation) {
	c.latest[op] = 0
	c.inflight[op] = false
}

func (c *Controller) adopt(id string) {
	if id != "" {
		c.session = ActiveSession{ID: id}
	}
}

func statusFor(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
