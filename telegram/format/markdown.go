// Package format holds text helpers for outgoing Telegram messages.
package format

import "strings"

// Telegram's legacy Markdown parser treats these characters as entity
// openers; an unbalanced one inside interpolated free text makes
// sendMessage reject the whole message.
var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"`", "\\`",
)

// EscapeMarkdown escapes operator-entered text so it can be interpolated
// into a Markdown message body.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}
