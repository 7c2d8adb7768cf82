// File: pkg/patterns/normalize.go
package patterns

import (
	"os"
	"strings"
)

// Normalize converts a path or pattern to the canonical form used for matching
// on the current platform. On platforms whose separator is a backslash every
// forward slash is rewritten; elsewhere the input is returned unchanged.
func Normalize(path string) string {
	return normalizeFor(os.PathSeparator, path)
}

// normalizeFor is the platform-independent core of Normalize.
func normalizeFor(sep rune, path string) string {
	if sep != '\\' {
		return path
	}
	return strings.ReplaceAll(path, "/", `\`)
}
