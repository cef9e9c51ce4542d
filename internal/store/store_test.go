package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	// Tables must survive across calls on the single pooled connection.
	if err := s.SessionRepo().CreateSession(context.Background(), &Session{ID: "a", Subject: "java", Topic: "t", Level: "beginner"}); err != nil {
		t.Fatalf("create session: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"sessions", "session_messages", "llm_events"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSessionCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	got, err := repo.GetSession(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for unknown session")
	}

	err = repo.CreateSession(ctx, &Session{
		ID:      "s1",
		Subject: "java",
		Topic:   "Classes and Objects",
		Level:   "beginner",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err = repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected session")
	}
	if got.Topic != "Classes and Objects" {
		t.Errorf("topic = %q, want %q", got.Topic, "Classes and Objects")
	}
	if got.CreatedAt.IsZero() || got.LastSeenAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	if err := repo.CreateSession(ctx, &Session{ID: "s1", Subject: "java", Topic: "x", Level: "beginner"}); err == nil {
		t.Error("expected duplicate id to fail")
	}
}

func TestHistoryOrderAndLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	if err := repo.CreateSession(ctx, &Session{ID: "s1", Subject: "java", Topic: "t", Level: "beginner"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := repo.AppendMessages(ctx, "s1",
		Message{Role: RoleUser, Content: "one"},
		Message{Role: RoleAssistant, Content: "two"},
		Message{Role: RoleUser, Content: "three"},
		Message{Role: RoleAssistant, Content: "four"},
	)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := repo.History(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len(history) = %d, want 4", len(all))
	}
	if all[0].Content != "one" || all[3].Content != "four" {
		t.Errorf("history order = %q..%q, want one..four", all[0].Content, all[3].Content)
	}

	tail, err := repo.History(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("history limit: %v", err)
	}
	if len(tail) != 2 {
		t.Fatalf("len(tail) = %d, want 2", len(tail))
	}
	if tail[0].Content != "three" || tail[1].Content != "four" {
		t.Errorf("tail = [%q %q], want [three four]", tail[0].Content, tail[1].Content)
	}
	if tail[1].Role != RoleAssistant {
		t.Errorf("role = %q, want %q", tail[1].Role, RoleAssistant)
	}
}

func TestAppendMessagesUnknownSession(t *testing.T) {
	s := openTestStore(t)
	err := s.SessionRepo().AppendMessages(context.Background(), "nope", Message{Role: RoleUser, Content: "x"})
	if err == nil {
		t.Fatal("expected foreign key failure for unknown session")
	}
}

func TestPruneSessions(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	old := time.Now().Add(-2 * time.Hour)
	if err := repo.CreateSession(ctx, &Session{ID: "old", Subject: "java", Topic: "t", Level: "beginner", CreatedAt: old}); err != nil {
		t.Fatalf("create old: %v", err)
	}
	if err := repo.CreateSession(ctx, &Session{ID: "fresh", Subject: "java", Topic: "t", Level: "beginner"}); err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	// Raw insert so the session's last_seen_at is not bumped.
	if _, err := s.DB().Exec(
		`INSERT INTO session_messages (session_id, role, content, created_at) VALUES ('old', 'user', 'hi', ?)`,
		old.UnixMilli()); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	n, err := repo.PruneSessions(ctx, time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}

	if got, _ := repo.GetSession(ctx, "old"); got != nil {
		t.Error("expected old session to be removed")
	}
	if got, _ := repo.GetSession(ctx, "fresh"); got == nil {
		t.Error("expected fresh session to remain")
	}

	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM session_messages WHERE session_id = 'old'`).Scan(&count); err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if count != 0 {
		t.Errorf("orphaned messages = %d, want 0", count)
	}
}

func TestTouchSessionKeepsSessionAlive(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	old := time.Now().Add(-2 * time.Hour)
	if err := repo.CreateSession(ctx, &Session{ID: "s1", Subject: "java", Topic: "t", Level: "beginner", CreatedAt: old}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.TouchSession(ctx, "s1", time.Now()); err != nil {
		t.Fatalf("touch: %v", err)
	}

	n, err := repo.PruneSessions(ctx, time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 0 {
		t.Errorf("pruned = %d, want 0", n)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "lesson-step", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "req"},
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "practice", InputTokens: 80, OutputTokens: 40, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "lesson-step", InputTokens: 10, OutputTokens: 0, LatencyMs: 400, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Model != "gpt-4o-mini" {
		t.Errorf("newest model = %q, want gpt-4o-mini", list[0].Model)
	}
	if list[0].Success {
		t.Error("expected failed event to have Success=false")
	}

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "lesson-step"})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("lesson-step events = %d, want 2", len(filtered))
	}

	first, err := repo.GetLLMEvent(ctx, list[1].ID-1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first == nil || first.RequestBody != "req" {
		t.Errorf("first event = %+v, want request body 'req'", first)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown event")
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	// Ordered by purpose name.
	if byPurpose[0].Purpose != "lesson-step" || byPurpose[0].Calls != 2 || byPurpose[0].InputTokens != 110 {
		t.Errorf("lesson-step usage = %+v", byPurpose[0])
	}
	if byPurpose[0].AvgLatencyMs != 300 {
		t.Errorf("avg latency = %d, want 300", byPurpose[0].AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("models = %d, want 2", len(byModel))
	}
	if byModel[0].Model != "claude-sonnet-4-5" || byModel[0].OutputTokens != 90 {
		t.Errorf("claude usage = %+v", byModel[0])
	}
}
