// File: pkg/patterns/filter.go
package patterns

import "go.uber.org/zap"

// Filter pairs an ignore list with an include list.
type Filter struct {
	Ignore  *List
	Include *List
	logger  *zap.Logger
}

// NewFilter builds a Filter. Nil lists are treated as empty.
func NewFilter(ignore, include *List, logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ignore == nil {
		ignore = NewList(logger)
	}
	if include == nil {
		include = NewList(logger)
	}
	return &Filter{Ignore: ignore, Include: include, logger: logger}
}

// Keep decides whether a relative path belongs in the output: it must match no
// ignore pattern and, when include patterns exist, at least one of them.
func (f *Filter) Keep(relPath string) bool {
	if p, ok := f.Ignore.Match(relPath); ok {
		f.logger.Debug("Path matches ignore pattern",
			zap.String("path", relPath),
			zap.String("pattern", p.Glob),
			zap.String("source", p.Source))
		return false
	}
	if f.Include.Empty() {
		return true
	}
	if f.Include.MatchesAny(relPath) {
		return true
	}
	f.logger.Debug("Path matches no include pattern", zap.String("path", relPath))
	return false
}
