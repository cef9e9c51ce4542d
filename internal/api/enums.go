package api

import (
	"fmt"
	"strings"
)

// Subject is one of the subjects the tutor teaches.
type Subject string

const (
	SubjectJava                 Subject = "Java"
	SubjectLogicalReasoning     Subject = "Logical Reasoning"
	SubjectAptitude             Subject = "Aptitude"
	SubjectDataStructures       Subject = "Data Structures"
	SubjectFullStackDevelopment Subject = "Full Stack Development"
)

// Subjects lists every subject in display order.
var Subjects = []Subject{
	SubjectJava,
	SubjectLogicalReasoning,
	SubjectAptitude,
	SubjectDataStructures,
	SubjectFullStackDevelopment,
}

// ParseSubject matches s case-insensitively against the known subjects.
func ParseSubject(s string) (Subject, error) {
	s = strings.TrimSpace(s)
	for _, sub := range Subjects {
		if strings.EqualFold(string(sub), s) {
			return sub, nil
		}
	}
	return "", fmt.Errorf("unknown subject %q", s)
}

// Level is the learner's proficiency level.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
)

// Levels lists every level in display order.
var Levels = []Level{LevelBeginner, LevelIntermediate}

// ParseLevel matches s case-insensitively against the known levels.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	for _, l := range Levels {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level %q", s)
}
