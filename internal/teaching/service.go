// Package teaching generates lesson steps and practice questions for
// tutoring sessions, falling back to canned content when no language model
// is available.
package teaching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/stepwise/internal/api"
	"github.com/abhisek/stepwise/internal/llm"
	"github.com/abhisek/stepwise/internal/store"
	"github.com/abhisek/stepwise/internal/tutor"
)

// Service answers lesson-step and practice requests. It is safe for
// concurrent use; all session state lives in the SessionRepo.
type Service struct {
	provider llm.Provider // nil when running offline
	sessions store.SessionRepo
	cfg      Config
	logger   *slog.Logger
	newID    func() string
	now      func() time.Time
}

// NewService creates a teaching service. A nil provider serves canned
// offline content for every request.
func NewService(provider llm.Provider, sessions store.SessionRepo, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Online reports whether a language model is configured.
func (s *Service) Online() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or "" when offline.
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

type lessonOutput struct {
	Step               string `json:"step"`
	CheckpointQuestion string `json:"checkpoint_question"`
	Recap              string `json:"recap"`
}

// LessonStep produces the next step of a lesson. An absent session id
// starts a new session; an unknown one is adopted as a new session.
func (s *Service) LessonStep(ctx context.Context, req api.LessonStepRequest) (*api.LessonStepResponse, error) {
	in, err := normalizeLesson(req)
	if err != nil {
		return nil, err
	}

	sessionID, err := s.ensureSession(ctx, req.SessionID, in.Subject, in.Topic, in.Level)
	if err != nil {
		return nil, err
	}

	note := buildUserNote(in)

	var step, checkpoint, recap string
	if s.provider == nil {
		step, checkpoint, recap = SplitLessonText(offlineLesson(in))
	} else {
		out, err := s.generateLesson(ctx, sessionID, note)
		switch {
		case err == nil:
			step = strings.TrimSpace(out.Step)
			if step == "" {
				step = DefaultStep
			}
			checkpoint = withMarker(out.CheckpointQuestion, checkpointMarker, "Checkpoint:", DefaultCheckpoint)
			recap = withMarker(out.Recap, recapMarker, "Recap:", DefaultRecap)
		case s.cfg.OfflineFallback && ctx.Err() == nil:
			s.logger.WarnContext(ctx, "lesson step generation failed, serving offline content",
				"session_id", sessionID, "transient", llm.IsTransient(err), "error", err)
			step, checkpoint, recap = SplitLessonText(offlineLesson(in))
		default:
			return nil, &UpstreamError{Op: "lesson step", Err: err}
		}
	}

	now := s.now()
	err = s.sessions.AppendMessages(ctx, sessionID,
		store.Message{Role: store.RoleUser, Content: note, CreatedAt: now},
		store.Message{Role: store.RoleAssistant, Content: tutor.FormatStep(step, checkpoint, recap), CreatedAt: now},
	)
	if err != nil {
		return nil, fmt.Errorf("record lesson step: %w", err)
	}

	return &api.LessonStepResponse{
		SessionID:          sessionID,
		Step:               step,
		CheckpointQuestion: checkpoint,
		Recap:              recap,
	}, nil
}

func (s *Service) generateLesson(ctx context.Context, sessionID, note string) (*lessonOutput, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeLessonStep)

	history, err := s.sessions.History(ctx, sessionID, s.cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == store.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: note})

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    messages,
		Schema:      LessonStepSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("lesson generation: %w", err)
	}

	var out lessonOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse lesson response: %w", err)
	}
	return &out, nil
}

type practiceOutput struct {
	Questions []struct {
		Question string `json:"question"`
		Kind     string `json:"kind"`
		Answer   string `json:"answer"`
	} `json:"questions"`
}

// Practice generates practice questions for the session's subject and
// topic. The returned list is never empty.
func (s *Service) Practice(ctx context.Context, req api.PracticeRequest) (*api.PracticeResponse, error) {
	subject, topic, level, err := normalizeTopic(req.Subject, req.Topic, req.Level)
	if err != nil {
		return nil, err
	}

	sessionID, err := s.ensureSession(ctx, req.SessionID, subject, topic, level)
	if err != nil {
		return nil, err
	}

	var items []api.PracticeItem
	if s.provider == nil {
		items = ParsePracticeLines(offlinePractice)
	} else {
		items, err = s.generatePractice(ctx, subject, topic, level)
		if err != nil {
			if !s.cfg.OfflineFallback || ctx.Err() != nil {
				return nil, &UpstreamError{Op: "practice", Err: err}
			}
			s.logger.WarnContext(ctx, "practice generation failed, serving offline content",
				"session_id", sessionID, "transient", llm.IsTransient(err), "error", err)
			items = ParsePracticeLines(offlinePractice)
		}
	}

	if len(items) == 0 {
		items = []api.PracticeItem{{Question: DefaultPracticeQuestion, Kind: api.KindConcept}}
	}

	if err := s.sessions.TouchSession(ctx, sessionID, s.now()); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}

	return &api.PracticeResponse{SessionID: sessionID, Practice: items}, nil
}

func (s *Service) generatePractice(ctx context.Context, subject, topic, level string) ([]api.PracticeItem, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposePractice)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPracticePrompt(subject, topic, level, s.cfg.PracticeCount)},
		},
		Schema:      PracticeSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.PracticeTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("practice generation: %w", err)
	}

	var out practiceOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse practice response: %w", err)
	}

	items := make([]api.PracticeItem, 0, len(out.Questions))
	for _, q := range out.Questions {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			continue
		}
		kind := q.Kind
		if kind != api.KindConcept && kind != api.KindApplied && kind != api.KindCode {
			kind = ClassifyKind(text)
		}
		items = append(items, api.PracticeItem{Question: text, Kind: kind, Answer: strings.TrimSpace(q.Answer)})
	}
	return items, nil
}

// ensureSession returns id if the session exists, otherwise creates it.
// An empty id gets a fresh UUID.
func (s *Service) ensureSession(ctx context.Context, id, subject, topic, level string) (string, error) {
	id = strings.TrimSpace(id)
	if id != "" {
		sess, err := s.sessions.GetSession(ctx, id)
		if err != nil {
			return "", fmt.Errorf("load session: %w", err)
		}
		if sess != nil {
			return id, nil
		}
	} else {
		id = s.newID()
	}

	err := s.sessions.CreateSession(ctx, &store.Session{
		ID:        id,
		Subject:   subject,
		Topic:     topic,
		Level:     level,
		CreatedAt: s.now(),
	})
	if err != nil {
		// A concurrent request may have created the same adopted id.
		if sess, getErr := s.sessions.GetSession(ctx, id); getErr == nil && sess != nil {
			return id, nil
		}
		return "", fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "session started", "session_id", id, "subject", subject, "topic", topic)
	return id, nil
}

func normalizeLesson(req api.LessonStepRequest) (lessonInput, error) {
	subject, topic, level, err := normalizeTopic(req.Subject, req.Topic, req.Level)
	if err != nil {
		return lessonInput{}, err
	}

	var misconceptions []string
	for _, m := range req.Misconceptions {
		if m = strings.TrimSpace(m); m != "" {
			misconceptions = append(misconceptions, m)
		}
	}

	return lessonInput{
		Subject:        subject,
		Topic:          topic,
		Level:          level,
		LastAnswer:     strings.TrimSpace(req.LastAnswer),
		Confusion:      req.Confusion,
		Misconceptions: misconceptions,
	}, nil
}

// normalizeTopic validates and canonicalizes the subject, topic and level.
// An empty level defaults to beginner.
func normalizeTopic(subject, topic, level string) (string, string, string, error) {
	sub, err := api.ParseSubject(subject)
	if err != nil {
		return "", "", "", &ValidationError{Field: "subject", Reason: err.Error()}
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", "", "", &ValidationError{Field: "topic", Reason: "must not be empty"}
	}

	lvl := api.LevelBeginner
	if strings.TrimSpace(level) != "" {
		if lvl, err = api.ParseLevel(level); err != nil {
			return "", "", "", &ValidationError{Field: "level", Reason: err.Error()}
		}
	}

	return string(sub), topic, string(lvl), nil
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsUpstream reports whether err is a surfaced model failure.
func IsUpstream(err error) bool {
	var u *UpstreamError
	return errors.As(err, &u)
}
