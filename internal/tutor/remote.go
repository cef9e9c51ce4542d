package tutor

import (
	"context"

	"github.com/abhisek/stepwise/internal/api"
)

// Remote performs the two exchanges with the tutoring service.
type Remote interface {
	LessonStep(ctx context.Context, req api.LessonStepRequest) (*api.LessonStepResponse, error)
	Practice(ctx context.Context, req api.PracticeRequest) (*api.PracticeResponse, error)
}

// LessonStepResult is the outcome of executing a LessonStepCall.
type LessonStepResult struct {
	Ticket   Ticket
	Response *api.LessonStepResponse
	Err      error
}

// PracticeResult is the outcome of executing a PracticeCall.
type PracticeResult struct {
	Ticket   Ticket
	Response *api.PracticeResponse
	Err      error
}

// RunLessonStep executes call against r. It never touches a Controller, so
// it is safe to run off the UI goroutine.
func RunLessonStep(ctx context.Context, r Remote, call LessonStepCall) LessonStepResult {
	resp, err := r.LessonStep(ctx, call.Request)
	return LessonStepResult{Ticket: call.Ticket, Response: resp, Err: err}
}

// RunPractice executes call against r.
func RunPractice(ctx context.Context, r Remote, call PracticeCall) PracticeResult {
	resp, err := r.Practice(ctx, call.Request)
	return PracticeResult{Ticket: call.Ticket, Response: resp, Err: err}
}

// ResolveLessonStep applies res to the controller. It reports whether the
// result was current.
func (c *Controller) ResolveLessonStep(res LessonStepResult) bool {
	if res.Err != nil || res.Response == nil {
		return c.FailLessonStep(res.Ticket, res.Err)
	}
	return c.ApplyLessonStep(res.Ticket, res.Response)
}

// ResolvePractice applies res to the controller.
func (c *Controller) ResolvePractice(res PracticeResult) bool {
	if res.Err != nil || res.Response == nil {
		return c.FailPractice(res.Ticket, res.Err)
	}
	return c.ApplyPractice(res.Ticket, res.Response)
}
