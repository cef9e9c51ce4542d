package lesson

import "github.com/abhisek/stepwise/internal/tutor"

// lessonStepDoneMsg carries a finished lesson-step call back to the UI.
type lessonStepDoneMsg struct {
	Result tutor.LessonStepResult
}

// practiceDoneMsg carries a finished practice call back to the UI.
type practiceDoneMsg struct {
	Result tutor.PracticeResult
}
