// File: pkg/locator/syncer.go
package locator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// Git backends selectable from configuration.
const (
	BackendExec   = "exec"
	BackendNative = "native"
)

// Syncer clones a remote repository or updates an existing clone in place.
type Syncer interface {
	Clone(ctx context.Context, url, dir string) error
	Pull(ctx context.Context, dir string) error
}

// NewSyncer returns the Syncer for backend. Progress output goes to out.
func NewSyncer(backend string, out io.Writer, logger *zap.Logger) (Syncer, error) {
	switch backend {
	case "", BackendExec:
		return NewExecSyncer(NewExecExecutor(out, out), logger), nil
	case BackendNative:
		return NewNativeSyncer(out, logger), nil
	default:
		return nil, fmt.Errorf("unknown git backend %q (want %q or %q)", backend, BackendExec, BackendNative)
	}
}

// ExecSyncer shells out to the git binary.
type ExecSyncer struct {
	executor CommandExecutor
	gitPath  string
	logger   *zap.Logger
}

// NewExecSyncer creates an ExecSyncer running git through executor.
func NewExecSyncer(executor CommandExecutor, logger *zap.Logger) *ExecSyncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecSyncer{executor: executor, gitPath: "git", logger: logger}
}

// Clone runs `git clone <url> <dir>`.
func (s *ExecSyncer) Clone(ctx context.Context, url, dir string) error {
	s.logger.Debug("Running git clone", zap.String("url", url), zap.String("dir", dir))
	cmd := exec.CommandContext(ctx, s.gitPath, "clone", url, dir)
	return s.executor.Execute(cmd)
}

// Pull runs `git -C <dir> pull`.
func (s *ExecSyncer) Pull(ctx context.Context, dir string) error {
	s.logger.Debug("Running git pull", zap.String("dir", dir))
	cmd := exec.CommandContext(ctx, s.gitPath, "-C", dir, "pull")
	return s.executor.Execute(cmd)
}

// NativeSyncer performs the same operations in-process with go-git.
type NativeSyncer struct {
	progress io.Writer
	logger   *zap.Logger
}

// NewNativeSyncer creates a NativeSyncer reporting progress to progress.
func NewNativeSyncer(progress io.Writer, logger *zap.Logger) *NativeSyncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NativeSyncer{progress: progress, logger: logger}
}

// Clone clones url into dir.
func (s *NativeSyncer) Clone(ctx context.Context, url, dir string) error {
	s.logger.Debug("Cloning with go-git", zap.String("url", url), zap.String("dir", dir))
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:      url,
		Progress: s.progress,
	})
	if err != nil {
		return NewGitError("clone", []string{url, dir}, err, "")
	}
	return nil
}

// Pull fetches and fast-forwards the current branch of the clone at dir.
// An already up to date worktree is not an error.
func (s *NativeSyncer) Pull(ctx context.Context, dir string) error {
	s.logger.Debug("Pulling with go-git", zap.String("dir", dir))
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return NewGitError("pull", []string{dir}, err, "")
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return NewGitError("pull", []string{dir}, err, "")
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName: git.DefaultRemoteName,
		Progress:   s.progress,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return NewGitError("pull", []string{dir}, err, "")
	}
	return nil
}
