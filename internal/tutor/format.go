package tutor

// FormatStep composes the assistant message shown for a lesson step:
//
//	<step>
//	<blank line>
//	<checkpoint question>
//	<recap>
//
// The template is fixed; the server only supplies the three parts.
func FormatStep(step, checkpoint, recap string) string {
	return step + "\n\n" + checkpoint + "\n" + recap
}
