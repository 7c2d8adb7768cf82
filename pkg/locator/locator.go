// File: pkg/locator/locator.go

// Package locator resolves a repository argument to a local directory,
// cloning or updating a remote repository first when asked to.
package locator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Options controls how a repository argument is resolved.
type Options struct {
	Clone    bool   // Treat the argument as a remote and clone/pull it.
	CloneDir string // Parent directory for clones; defaults to the working directory.
}

// Locator resolves repository arguments.
type Locator struct {
	syncer Syncer
	opts   Options
	logger *zap.Logger
}

// New creates a Locator. syncer may be nil when cloning is never requested.
func New(syncer Syncer, opts Options, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{syncer: syncer, opts: opts, logger: logger}
}

// RepoName derives a repository name from the last segment of arg, with
// trailing separators and a trailing ".git" suffix removed.
func RepoName(arg string) string {
	trimmed := strings.TrimRight(arg, `/\`)
	if i := strings.LastIndexAny(trimmed, `/\:`); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return strings.TrimSuffix(trimmed, ".git")
}

// Resolve turns arg into a validated local directory, syncing it first in
// clone mode. It returns the absolute directory and the repository name.
func (l *Locator) Resolve(ctx context.Context, arg string) (string, string, error) {
	if strings.TrimSpace(arg) == "" {
		return "", "", ErrEmptyRepository
	}

	var repoPath string
	name := RepoName(arg)

	if l.opts.Clone {
		if name == "" {
			return "", "", fmt.Errorf("cannot derive a directory name from %q: %w", arg, ErrEmptyRepository)
		}
		path, err := l.sync(ctx, arg, name)
		if err != nil {
			return "", "", err
		}
		repoPath = path
	} else {
		repoPath = arg
	}

	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to get absolute path for %s: %w", repoPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil || !info.IsDir() {
		l.logger.Error("Repository path is not a directory", zap.String("path", absPath), zap.Error(err))
		return "", "", fmt.Errorf("%s: %w", absPath, ErrNotDirectory)
	}

	if !l.opts.Clone {
		name = filepath.Base(absPath)
	}
	return absPath, name, nil
}

// sync pulls an existing clone or clones a fresh one and returns its path.
func (l *Locator) sync(ctx context.Context, url, name string) (string, error) {
	if l.syncer == nil {
		return "", fmt.Errorf("no syncer configured: %w", ErrSyncFailed)
	}

	parent := l.opts.CloneDir
	if parent == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		parent = wd
	}
	dir := filepath.Join(parent, name)

	_, err := os.Stat(dir)
	switch {
	case err == nil:
		l.logger.Info("Repository already exists, pulling latest changes", zap.String("dir", dir))
		if err := l.syncer.Pull(ctx, dir); err != nil {
			l.logger.Error("Error pulling repository", zap.String("dir", dir), zap.Error(err))
			return "", fmt.Errorf("failed to pull %s: %w", dir, err)
		}
		l.logger.Info("Repository updated successfully", zap.String("dir", dir))
	case errors.Is(err, fs.ErrNotExist):
		l.logger.Info("Cloning repository", zap.String("url", url), zap.String("dir", dir))
		if err := l.syncer.Clone(ctx, url, dir); err != nil {
			l.logger.Error("Error cloning repository", zap.String("url", url), zap.Error(err))
			return "", fmt.Errorf("failed to clone %s: %w", url, err)
		}
		l.logger.Info("Repository cloned successfully", zap.String("dir", dir))
	default:
		return "", fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	return dir, nil
}
