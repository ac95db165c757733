// Package format escapes user-entered text for Telegram parse modes.
package format

import (
	"fmt"
	"strings"
)

// Telegram markdown flavours supported by EscapeMarkdown.
const (
	MarkdownV1 = 1
	MarkdownV2 = 2
)

const (
	mdV1Specials = "\\_*`["
	mdV2Specials = "\\_*[]()~`>#+-=|{}.!"
)

// EscapeMarkdown backslash-escapes the characters Telegram treats as markup,
// so account names and notes typed by users render literally.
func EscapeMarkdown(text string, version int) (string, error) {
	var specials string
	switch version {
	case MarkdownV1:
		specials = mdV1Specials
	case MarkdownV2:
		specials = mdV2Specials
	default:
		return "", fmt.Errorf("unsupported markdown version: %d", version)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x80 && strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
