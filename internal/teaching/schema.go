package teaching

import "github.com/abhisek/stepwise/internal/llm"

// LessonStepSchema defines the JSON schema for a single lesson step.
var LessonStepSchema = &llm.Schema{
	Name:        "lesson-step",
	Description: "One small step of a lesson with a checkpoint question and a one-line recap",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"step": map[string]any{
				"type":        "string",
				"description": "The explanation for this step: a real-world example, the idea in plain language, and a short practical illustration",
			},
			"checkpoint_question": map[string]any{
				"type":        "string",
				"description": "One question that checks understanding of this step",
			},
			"recap": map[string]any{
				"type":        "string",
				"description": "The key idea of this step in one line",
			},
		},
		"required":             []any{"step", "checkpoint_question", "recap"},
		"additionalProperties": false,
	},
}

// PracticeSchema defines the JSON schema for a practice question set.
var PracticeSchema = &llm.Schema{
	Name:        "practice-set",
	Description: "Practice questions mixing conceptual, applied and code items",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The practice question",
						},
						"kind": map[string]any{
							"type": "string",
							"enum": []any{"concept", "applied", "code"},
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "A short model answer",
						},
					},
					"required":             []any{"question", "kind", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
