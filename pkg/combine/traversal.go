// File: pkg/combine/traversal.go
package combine

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"gptloader/pkg/patterns"
)

// walkRoot is the root of every repository filesystem.
var walkRoot = string(filepath.Separator)

// CollectFiles walks the repository filesystem and returns the sorted relative
// paths of every file the filter keeps. Paths listed in exclude are skipped.
func CollectFiles(fsys billy.Filesystem, filter *patterns.Filter, exclude []string, logger *zap.Logger) ([]string, error) {
	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		skip[filepath.Clean(p)] = true
	}

	var files []string
	logger.Debug("Starting file traversal and collection")

	err := util.Walk(fsys, walkRoot, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			return nil // Skip paths that cause errors
		}
		if info.IsDir() {
			return nil
		}

		relPath := relativePath(path)
		if !isRegular(fsys, path, info) {
			logger.Debug("Skipping non-regular file", zap.String("path", relPath))
			return nil
		}
		if skip[relPath] {
			logger.Debug("Skipping excluded file", zap.String("path", relPath))
			return nil
		}
		if !filter.Keep(relPath) {
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	if err != nil {
		logger.Error("Error during file traversal", zap.Error(err))
		return nil, err
	}

	sort.Strings(files)
	logger.Debug("Completed file traversal and collection", zap.Int("files", len(files)))
	return files, nil
}

// isRegular reports whether path is a regular file or a symlink to one.
// Symlinked directories are not followed.
func isRegular(fsys billy.Filesystem, path string, info fs.FileInfo) bool {
	if info.Mode()&fs.ModeSymlink == 0 {
		return info.Mode().IsRegular()
	}
	target, err := fsys.Stat(path)
	return err == nil && target.Mode().IsRegular()
}

// relativePath strips the filesystem root from a walked path.
func relativePath(path string) string {
	return strings.TrimLeft(path, `/\`)
}

// fsPath maps a relative path back into the repository filesystem.
func fsPath(relPath string) string {
	return filepath.Join(walkRoot, relPath)
}
