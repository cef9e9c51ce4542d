package teaching

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a teaching assistant who makes complex concepts easy to understand.

Teach one small step at a time:
1. Start with a simple real-world example that illustrates the idea.
2. Explain the core idea in plain, conversational language.
3. Break it into small steps and use everyday analogies.
4. Give a clear practical example.
5. Finish with one checkpoint question and a one-line recap.

Keep explanations brief. Avoid jargon the learner has not seen yet. Focus on
understanding rather than memorization and adapt to the learner's level. When
the learner is confused, switch to a different example or analogy.`

// lessonInput is the normalized form of a lesson-step request.
type lessonInput struct {
	Subject        string
	Topic          string
	Level          string
	LastAnswer     string
	Confusion      bool
	Misconceptions []string
}

// buildUserNote describes the learner's situation for the next step. The
// same note is stored in the session history.
func buildUserNote(in lessonInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s. Topic: %s. Level: %s.", in.Subject, in.Topic, in.Level)
	if len(in.Misconceptions) > 0 {
		fmt.Fprintf(&b, " Known misconceptions: %s.", strings.Join(in.Misconceptions, ", "))
	}
	if in.LastAnswer != "" {
		fmt.Fprintf(&b, " Learner previous answer: %s.", in.LastAnswer)
	}
	if in.Confusion {
		b.WriteString(" Learner is confused; re-explain with a different analogy.")
	}
	b.WriteString("\nGive the next clear step with a real-world example.")

	return b.String()
}

func buildPracticePrompt(subject, topic, level string, count int) string {
	return fmt.Sprintf(
		"Create %d practice questions for subject %s, topic %s, level %s. "+
			"Mix conceptual and applied questions with one small code or worked example. "+
			"Label each with its kind and include a short model answer.",
		count, subject, topic, level)
}
