package api

import (
	"strings"
	"unicode/utf8"
)

// Diagnostics larger than this rectangle are clipped before they are shown
// or sent.
const (
	MaxTextHeight = 40
	MaxTextWidth  = 80
)

// TrimStrToRect clips s to at most maxHeight lines of maxWidth bytes,
// marking every cut with "[...]". Lines are cut on rune boundaries.
func TrimStrToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	tooTall := len(lines) > maxHeight
	if tooTall {
		lines = lines[:maxHeight]
	}
	var res strings.Builder
	for i, line := range lines {
		if i > 0 {
			res.WriteString("\n")
		}
		res.WriteString(clipLine(line, maxWidth))
	}
	if tooTall {
		res.WriteString("\n[...]")
	}
	return res.String()
}

func clipLine(line string, maxWidth int) string {
	if len(line) <= maxWidth {
		return line
	}
	cut := maxWidth
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + "[...]"
}

// TrimStr clips s to the default rectangle.
func TrimStr(s string) string {
	return TrimStrToRect(s, MaxTextHeight, MaxTextWidth)
}
