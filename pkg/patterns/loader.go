// File: pkg/patterns/loader.go
package patterns

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Default pattern file names looked up in the repository and the bundle directory.
const (
	IgnoreFileName  = ".gptignore"
	IncludeFileName = ".gptinclude"
)

// builtinSource labels patterns compiled into the binary.
const builtinSource = "<builtin>"

//go:embed defaults/gptignore
var defaultIgnore string

// LoaderOptions configures where pattern files are looked up.
type LoaderOptions struct {
	IgnoreFile   string   // Ignore file name; defaults to IgnoreFileName.
	IncludeFile  string   // Include file name; defaults to IncludeFileName.
	BundleDir    string   // Directory holding the bundled pattern files.
	Fallback     bool     // Use bundled patterns when the repository has none.
	ExtraIgnore  []string // Additional ignore globs appended after file patterns.
	ExtraInclude []string // Additional include globs appended after file patterns.
}

// Loader resolves and compiles the ignore and include lists for a repository.
type Loader struct {
	opts   LoaderOptions
	logger *zap.Logger
}

// NewLoader returns a Loader with defaults applied to opts.
func NewLoader(opts LoaderOptions, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.IgnoreFile == "" {
		opts.IgnoreFile = IgnoreFileName
	}
	if opts.IncludeFile == "" {
		opts.IncludeFile = IncludeFileName
	}
	return &Loader{opts: opts, logger: logger}
}

// DefaultBundleDir returns the directory holding the running executable.
func DefaultBundleDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// Load compiles the ignore and include lists for repoDir.
//
// Each file is resolved on its own: the repository copy wins; otherwise, with
// fallback enabled, the bundled copy is used, and for the ignore list the
// builtin defaults when no bundled copy exists either.
func (l *Loader) Load(repoDir string) (*Filter, error) {
	ignore := NewList(l.logger)
	source, err := l.compile(ignore, repoDir, l.opts.IgnoreFile, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore patterns: %w", err)
	}
	l.logger.Info("Loaded ignore patterns", zap.String("source", source), zap.Int("count", ignore.Len()))

	include := NewList(l.logger)
	source, err = l.compile(include, repoDir, l.opts.IncludeFile, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load include patterns: %w", err)
	}
	l.logger.Info("Loaded include patterns", zap.String("source", source), zap.Int("count", include.Len()))

	if extra := ParseLines(l.opts.ExtraIgnore); len(extra) > 0 {
		ignore.CompileLines("flag", extra...)
	}
	if extra := ParseLines(l.opts.ExtraInclude); len(extra) > 0 {
		include.CompileLines("flag", extra...)
	}

	return NewFilter(ignore, include, l.logger), nil
}

// compile fills list from the first available source and returns its label.
func (l *Loader) compile(list *List, repoDir, name string, builtin bool) (string, error) {
	repoFile := filepath.Join(repoDir, name)
	found, err := list.CompileFile(repoFile)
	if err != nil || found {
		return repoFile, err
	}

	if !l.opts.Fallback {
		l.logger.Debug("Pattern file absent and fallback disabled", zap.String("file", repoFile))
		return "", nil
	}

	if l.opts.BundleDir != "" {
		bundled := filepath.Join(l.opts.BundleDir, name)
		found, err = list.CompileFile(bundled)
		if err != nil || found {
			return bundled, err
		}
	}

	if builtin {
		list.CompileLines(builtinSource, strings.Split(defaultIgnore, "\n")...)
		return builtinSource, nil
	}
	return "", nil
}
