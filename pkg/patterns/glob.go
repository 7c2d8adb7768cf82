// File: pkg/patterns/glob.go
package patterns

import (
	"fmt"
	"regexp"
	"strings"
)

// compileGlob converts a shell-style glob into an anchored regular expression.
// The glob is applied to the whole relative path, so '*' also matches the
// path separator.
func compileGlob(glob string) (*regexp.Regexp, error) {
	expr := "^(?s:" + translateGlob(glob) + `)\z`
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", glob, err)
	}
	return re, nil
}

// translateGlob converts the wildcards '*', '?' and '[...]' to their regex
// equivalents and quotes everything else.
func translateGlob(glob string) string {
	var b strings.Builder
	runes := []rune(glob)
	n := len(runes)

	for i := 0; i < n; i++ {
		switch c := runes[i]; c {
		case '*':
			// Collapse runs of stars, they match the same set.
			for i+1 < n && runes[i+1] == '*' {
				i++
			}
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			end := classEnd(runes, i+1)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(translateClass(runes[i+1 : end]))
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}

// classEnd returns the index of the ']' closing a character class whose body
// starts at start, or -1 when the class is unterminated.
func classEnd(runes []rune, start int) int {
	j := start
	if j < len(runes) && runes[j] == '!' {
		j++
	}
	// A ']' right after the opening bracket (or its negation) is literal.
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for j < len(runes) && runes[j] != ']' {
		j++
	}
	if j >= len(runes) {
		return -1
	}
	return j
}

// translateClass builds a regex character class from a glob class body.
func translateClass(body []rune) string {
	var b strings.Builder
	b.WriteByte('[')
	if len(body) > 0 && body[0] == '!' {
		b.WriteByte('^')
		body = body[1:]
	}
	for _, r := range body {
		switch r {
		case '\\', '[', ']', '^':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(']')
	return b.String()
}
