package teaching

import (
	"fmt"
	"strings"

	"github.com/abhisek/stepwise/internal/api"
)

// Defaults used when a lesson text lacks one of its sections.
const (
	DefaultStep       = "Let's continue learning..."
	DefaultCheckpoint = "Checkpoint: What is one key idea here?"
	DefaultRecap      = "Recap: Quick recap: key idea in one line."

	// DefaultPracticeQuestion replaces an empty practice set.
	DefaultPracticeQuestion = "Describe one key idea from the lesson in your own words."
)

const (
	checkpointMarker = "checkpoint:"
	recapMarker      = "recap:"
)

const offlinePractice = `1) What is the main concept you learned?
2) Can you give a real-world example?
3) Try writing a simple code example.
4) How would you explain this to a friend?
5) What questions do you still have?`

// offlineLesson returns a canned lesson text with checkpoint and recap
// markers for use when no model is available.
func offlineLesson(in lessonInput) string {
	analogy := "Think of it like learning to ride a bike: you start with the basics before moving to advanced tricks."
	opening := fmt.Sprintf("Let's start learning about %s in %s.", in.Topic, in.Subject)
	if in.Confusion {
		opening = fmt.Sprintf("Let's look at %s from a different angle.", in.Topic)
		analogy = "Think of it like following a recipe: each step builds on the one before, and skipping one changes the result."
	}

	return fmt.Sprintf(`%s

%s

Checkpoint: Can you explain what %s means in your own words?

Recap: We're building understanding step by step.`, opening, analogy, in.Topic)
}

// SplitLessonText splits free-form lesson text into its step, checkpoint
// and recap sections. Sections start at the first line beginning with
// "Checkpoint:" or "Recap:" (case-insensitive); lines are trimmed and
// blank lines dropped. Missing sections get the package defaults.
func SplitLessonText(text string) (step, checkpoint, recap string) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	cpIdx, rcIdx := -1, -1
	for i, l := range lines {
		lower := strings.ToLower(l)
		if cpIdx < 0 && strings.HasPrefix(lower, checkpointMarker) {
			cpIdx = i
		}
		if rcIdx < 0 && strings.HasPrefix(lower, recapMarker) {
			rcIdx = i
		}
	}

	stepEnd := len(lines)
	for _, idx := range []int{cpIdx, rcIdx} {
		if idx >= 0 && idx < stepEnd {
			stepEnd = idx
		}
	}

	// A leading marker leaves no prefix, so the whole text is the step.
	if stepEnd == 0 {
		stepEnd = len(lines)
	}
	step = strings.Join(lines[:stepEnd], "\n")
	if step == "" {
		step = DefaultStep
	}

	checkpoint = DefaultCheckpoint
	if cpIdx >= 0 {
		end := len(lines)
		if rcIdx > cpIdx {
			end = rcIdx
		}
		checkpoint = strings.Join(lines[cpIdx:end], " ")
	}

	recap = DefaultRecap
	if rcIdx >= 0 {
		end := len(lines)
		if cpIdx > rcIdx {
			end = cpIdx
		}
		recap = strings.Join(lines[rcIdx:end], " ")
	}

	return step, checkpoint, recap
}

// ParsePracticeLines turns numbered question lines into practice items.
// Leading numbering such as "1) " or "2. " is stripped and the kind is
// classified from the question text.
func ParsePracticeLines(raw string) []api.PracticeItem {
	var items []api.PracticeItem
	for _, line := range strings.Split(raw, "\n") {
		q := strings.TrimLeft(strings.TrimSpace(line), "0123456789). ")
		if q == "" {
			continue
		}
		items = append(items, api.PracticeItem{Question: q, Kind: ClassifyKind(q)})
	}
	return items
}

// ClassifyKind infers a practice item kind from its wording: mentions of
// code win, then "apply" or "scenario", otherwise the item is conceptual.
func ClassifyKind(question string) string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "code"):
		return api.KindCode
	case strings.Contains(lower, "apply"), strings.Contains(lower, "scenario"):
		return api.KindApplied
	default:
		return api.KindConcept
	}
}

// withMarker prefixes s with label unless it already starts with marker.
// An empty s yields fallback.
func withMarker(s, marker, label, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if strings.HasPrefix(strings.ToLower(s), marker) {
		return s
	}
	return label + " " + s
}
