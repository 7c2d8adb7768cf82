// File: pkg/combine/combine.go
package combine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"

	"gptloader/pkg/locator"
	"gptloader/pkg/patterns"
)

// Markers of the output document format.
const (
	RecordSeparator = "----"
	Sentinel        = "--END--"
)

// DefaultPreamble describes the document format to its reader.
const DefaultPreamble = "The following text is a Git repository with code. The structure of the text are sections that begin with ----, followed by a single line containing the file path and file name, followed by a variable amount of lines containing the file contents. The text representing the Git repository ends when the symbols --END-- are encounted. Any further text beyond --END-- are meant to be interpreted as instructions using the aforementioned Git repository as context.\n"

// RunCombine locates the repository, loads its patterns and writes the output
// document. It returns the path of the written file. syncer may be nil, in
// which case one is built from args.GitBackend when cloning is requested.
func RunCombine(ctx context.Context, args *Arguments, syncer locator.Syncer, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()
	logger.Info("Starting combination process", zap.String("repository", args.Repository), zap.Bool("clone", args.Clone))

	if syncer == nil && args.Clone {
		s, err := locator.NewSyncer(args.GitBackend, os.Stderr, logger)
		if err != nil {
			return "", err
		}
		syncer = s
	}

	loc := locator.New(syncer, locator.Options{Clone: args.Clone, CloneDir: args.CloneDir}, logger)
	repoDir, repoName, err := loc.Resolve(ctx, args.Repository)
	if err != nil {
		return "", err
	}

	filter, err := patterns.NewLoader(args.Patterns, logger).Load(repoDir)
	if err != nil {
		logger.Error("Failed to load patterns", zap.Error(err))
		return "", err
	}

	preamble, err := loadPreamble(args.PreambleFile)
	if err != nil {
		logger.Error("Failed to read preamble", zap.String("file", args.PreambleFile), zap.Error(err))
		return "", err
	}

	outputPath := args.Output
	if outputPath == "" {
		outputPath = repoName + ".txt"
	}
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", outputPath, err)
	}

	var exclude []string
	if rel, ok := insideDir(repoDir, absOutput); ok {
		exclude = append(exclude, rel)
	}

	fsys := osfs.New(repoDir)
	files, err := CollectFiles(fsys, filter, exclude, logger)
	if err != nil {
		return "", fmt.Errorf("failed to collect files: %w", err)
	}

	written, err := WriteCombinedFile(outputPath, preamble, fsys, files, logger)
	if err != nil {
		logger.Error("Failed to write combined file", zap.String("combinedFile", outputPath), zap.Error(err))
		return "", fmt.Errorf("failed to write combined file: %w", err)
	}

	if err := appendSentinel(outputPath, logger); err != nil {
		return "", err
	}

	logger.Info("Combination process completed",
		zap.String("outputFile", outputPath),
		zap.Int("totalFiles", written),
		zap.Duration("elapsed", time.Since(startTime)))
	return outputPath, nil
}

// loadPreamble returns the custom preamble followed by a newline, or the default.
func loadPreamble(path string) (string, error) {
	if path == "" {
		return DefaultPreamble, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read preamble file: %w", err)
	}
	return string(data) + "\n", nil
}

// insideDir reports whether path lies under dir and returns it relative to dir.
func insideDir(dir, path string) (string, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
