package api

import "testing"

func TestParseSubject(t *testing.T) {
	tests := []struct {
		in      string
		want    Subject
		wantErr bool
	}{
		{"Java", SubjectJava, false},
		{"  data structures ", SubjectDataStructures, false},
		{"FULL STACK DEVELOPMENT", SubjectFullStackDevelopment, false},
		{"Python", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSubject(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSubject(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSubject(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("Intermediate"); err != nil || l != LevelIntermediate {
		t.Errorf("ParseLevel(Intermediate) = %q, %v", l, err)
	}
	if _, err := ParseLevel("expert"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestErrorMessage(t *testing.T) {
	e := &Error{StatusCode: 500, Detail: "LLM unavailable"}
	if got := e.Error(); got != "tutoring service: 500 Internal Server Error: LLM unavailable" {
		t.Errorf("Error() = %q", got)
	}
	e = &Error{StatusCode: 404}
	if got := e.Error(); got != "tutoring service: 404 Not Found" {
		t.Errorf("Error() = %q", got)
	}
}
