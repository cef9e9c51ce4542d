package store

import (
	"context"
	"time"
)

// Session is a server-side tutoring session.
type Session struct {
	ID         string
	Subject    string
	Topic      string
	Level      string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// Message roles stored in session history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a session's conversation history.
type Message struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// SessionRepo manages sessions and their conversation history.
type SessionRepo interface {
	// GetSession returns the session with id, or nil if it does not exist.
	GetSession(ctx context.Context, id string) (*Session, error)

	// CreateSession inserts a new session.
	CreateSession(ctx context.Context, sess *Session) error

	// TouchSession updates last_seen_at for a session.
	TouchSession(ctx context.Context, id string, at time.Time) error

	// AppendMessages appends messages to a session's history in order.
	AppendMessages(ctx context.Context, id string, msgs ...Message) error

	// History returns up to limit of the most recent messages, oldest first.
	// A limit of zero or less returns the full history.
	History(ctx context.Context, id string, limit int) ([]Message, error)

	// PruneSessions deletes sessions idle for longer than idleFor, along
	// with their history, and returns the number removed.
	PruneSessions(ctx context.Context, idleFor time.Duration) (int64, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match when non-empty
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
