package chat

import (
	"strings"

	"github.com/wahlandcase/attuned.audit/internal/models"
)

var sanitizer = strings.NewReplacer(`"`, "", `\`, "")

// Sanitize strips double quotes and backslashes. The backend splices aiChatLog
// into a JSON prompt without escaping it.
func Sanitize(s string) string {
	return sanitizer.Replace(s)
}

// BuildContext renders the transcript plus the pending question as
// "role: text" lines, sanitized for the aiChatLog field
func BuildContext(turns []models.ChatTurn, question string) string {
	var b strings.Builder
	for _, turn := range turns {
		text := turn.Raw
		if text == "" {
			text = turn.Content
		}
		b.WriteString(string(turn.Role))
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(text))
		b.WriteByte('\n')
	}
	b.WriteString(string(models.RoleUser))
	b.WriteString(": ")
	b.WriteString(question)
	return Sanitize(b.String())
}
