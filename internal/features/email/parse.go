package email

import "strings"

const subjectLabel = "Subject:"

// ParseDraft splits generated text into subject and body. The first line
// starting with "Subject:" is the subject; everything else is the body. Text
// without such a line is all body.
func ParseDraft(text string) (subject, body string) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, subjectLabel) {
			continue
		}
		subject = strings.TrimSpace(strings.TrimPrefix(trimmed, subjectLabel))
		rest := append(append([]string{}, lines[:i]...), lines[i+1:]...)
		return subject, strings.TrimSpace(strings.Join(rest, "\n"))
	}
	return "", strings.TrimSpace(text)
}
