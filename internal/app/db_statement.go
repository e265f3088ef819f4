package app

import (
	"strings"
	"unicode"
)

const maxTracedStatementLen = 512

// compactStatement folds a SQL statement onto one line and drops "--"
// comments so span attributes stay short and readable.
func compactStatement(query string) string {
	var b strings.Builder
	b.Grow(len(query))

	for _, line := range strings.Split(query, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		for _, word := range strings.FieldsFunc(line, unicode.IsSpace) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word)
		}
	}

	out := b.String()
	if len(out) > maxTracedStatementLen {
		return out[:maxTracedStatementLen] + "..."
	}
	return out
}
