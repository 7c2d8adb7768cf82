// File: pkg/patterns/list.go
package patterns

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// matchNothing is an empty character class; it matches no input.
var matchNothing = regexp.MustCompile(`[^\x00-\x{10FFFF}]`)

// Pattern encapsulates a compiled glob and metadata about its origin.
type Pattern struct {
	Glob   string         // Normalized glob text.
	Regexp *regexp.Regexp // Compiled, fully anchored expression.
	Source string         // File the pattern came from, or a label such as "flag".
	LineNo int            // Line number in the source (1-based).
}

// List is an ordered, load-once collection of patterns.
type List struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// NewList initializes an empty List with the provided logger.
func NewList(logger *zap.Logger) *List {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &List{
		patterns: []*Pattern{},
		logger:   logger,
	}
}

// ParseLines strips every line and drops blanks and '#' comments.
func ParseLines(lines []string) []string {
	var globs []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		globs = append(globs, trimmed)
	}
	return globs
}

// CompileLines compiles pattern lines from source into the list.
// A line that does not compile is kept as a pattern matching no path, so an
// include list holding only invalid patterns still excludes everything.
func (l *List) CompileLines(source string, lines ...string) {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		glob := Normalize(trimmed)
		re, err := compileGlob(glob)
		if err != nil {
			l.logger.Warn("Invalid pattern will match nothing",
				zap.String("source", source),
				zap.Int("lineNo", i+1),
				zap.String("pattern", trimmed),
				zap.Error(err))
			re = matchNothing
		}

		p := &Pattern{Glob: glob, Regexp: re, Source: source, LineNo: i + 1}
		l.patterns = append(l.patterns, p)
		l.logger.Debug("Compiled pattern",
			zap.String("source", source),
			zap.Int("lineNo", p.LineNo),
			zap.String("pattern", p.Glob))
	}
}

// CompileFile reads a pattern file and compiles its lines into the list.
// It reports whether the file existed; a missing file is not an error.
func (l *List) CompileFile(filePath string) (bool, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("Pattern file does not exist and will be skipped", zap.String("filePath", filePath))
			return false, nil
		}
		l.logger.Error("Failed to read pattern file", zap.String("filePath", filePath), zap.Error(err))
		return false, fmt.Errorf("failed to read pattern file %s: %w", filePath, err)
	}

	lines := strings.Split(string(content), "\n")
	l.CompileLines(filePath, lines...)
	l.logger.Debug("Loaded pattern file", zap.String("filePath", filePath), zap.Int("patternCount", l.Len()))
	return true, nil
}

// Match returns the first pattern matching path, if any.
func (l *List) Match(path string) (*Pattern, bool) {
	normalizedPath := Normalize(path)
	for _, p := range l.patterns {
		if p.Regexp.MatchString(normalizedPath) {
			return p, true
		}
	}
	return nil, false
}

// MatchesAny checks if path matches at least one pattern.
func (l *List) MatchesAny(path string) bool {
	_, ok := l.Match(path)
	return ok
}

// Len returns the number of compiled patterns.
func (l *List) Len() int { return len(l.patterns) }

// Empty reports whether the list holds no patterns.
func (l *List) Empty() bool { return len(l.patterns) == 0 }

// Globs returns the normalized glob text of every pattern, in order.
func (l *List) Globs() []string {
	globs := make([]string, 0, len(l.patterns))
	for _, p := range l.patterns {
		globs = append(globs, p.Glob)
	}
	return globs
}
