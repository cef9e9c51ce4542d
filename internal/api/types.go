// Package api defines the JSON wire types shared by the tutoring service
// and its clients.
package api

// LessonStepRequest is the body of POST /lesson-step.
type LessonStepRequest struct {
	Subject   string `json:"subject"`
	Topic     string `json:"topic"`
	Level     string `json:"level"`
	SessionID string `json:"session_id,omitempty"`

	// LastAnswer is the learner's answer to the previous checkpoint
	// question. Omitted when the learner has not answered.
	LastAnswer string `json:"last_answer,omitempty"`

	// Confusion asks the service to re-explain the current step.
	Confusion bool `json:"confusion"`

	// Misconceptions are known learner misconceptions to address.
	Misconceptions []string `json:"misconceptions,omitempty"`
}

// LessonStepResponse is the body returned by POST /lesson-step.
type LessonStepResponse struct {
	SessionID          string `json:"session_id"`
	Step               string `json:"step"`
	CheckpointQuestion string `json:"checkpoint_question"`
	Recap              string `json:"recap"`
}

// PracticeRequest is the body of POST /practice.
type PracticeRequest struct {
	Subject   string `json:"subject"`
	Topic     string `json:"topic"`
	Level     string `json:"level"`
	SessionID string `json:"session_id"`
}

// PracticeItem is a single generated exercise.
type PracticeItem struct {
	Question string `json:"question"`
	Kind     string `json:"kind"`
	Answer   string `json:"answer,omitempty"`
}

// Practice item kinds produced by the service.
const (
	KindConcept = "concept"
	KindApplied = "applied"
	KindCode    = "code"
)

// PracticeResponse is the body returned by POST /practice.
type PracticeResponse struct {
	SessionID string         `json:"session_id"`
	Practice  []PracticeItem `json:"practice"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	LLMConfigured bool   `json:"llm_configured"`
	Provider      string `json:"provider,omitempty"`
	Version       string `json:"version"`
	Message       string `json:"message"`
}

// ErrorBody is the JSON body of every non-2xx response.
type ErrorBody struct {
	Detail string `json:"detail"`
}
