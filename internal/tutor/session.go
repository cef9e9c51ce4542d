package tutor

// Session is the controller's view of the remote tutoring session.
// It is either NoSession or ActiveSession.
type Session interface {
	isSession()
}

// NoSession means no lesson has produced a server session id yet.
type NoSession struct{}

// ActiveSession holds the most recent session id returned by the server.
type ActiveSession struct {
	ID string
}

func (NoSession) isSession()     {}
func (ActiveSession) isSession() {}

// SessionID returns the id of s, or "" for NoSession.
func SessionID(s Session) string {
	if a, ok := s.(ActiveSession); ok {
		return a.ID
	}
	return ""
}

// Phase is the coarse controller state derived from the session.
type Phase int

const (
	PhaseIdle   Phase = iota // no session yet
	PhaseActive              // session id adopted from the server
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "Active"
	default:
		return "Idle"
	}
}
