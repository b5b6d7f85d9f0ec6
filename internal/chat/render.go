package chat

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

const wrapWidth = 76

// Render turns a markdown answer into styled terminal text. Escape sequences
// and control characters in the answer are removed before rendering, so the
// only escapes in the output are the ones glamour adds.
func Render(markdown string) string {
	clean := stripControl(ansi.Strip(markdown))

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return clean
	}
	out, err := renderer.Render(clean)
	if err != nil {
		return clean
	}
	return strings.Trim(out, "\n")
}

// stripControl drops control characters other than newline; tabs become spaces
func stripControl(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, s)
}
