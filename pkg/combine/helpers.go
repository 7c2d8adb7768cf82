// File: pkg/combine/helpers.go
package combine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
)

// WriteDocument writes the preamble and one record per file to w, in the
// order of files. Files are read one at a time, so at most one file's contents
// is held in memory. It returns the number of records written.
func WriteDocument(w io.Writer, preamble string, fsys billy.Filesystem, files []string, logger *zap.Logger) (int, error) {
	writer := bufio.NewWriter(w)

	if _, err := writer.WriteString(preamble); err != nil {
		return 0, fmt.Errorf("failed to write preamble: %w", err)
	}

	written := 0
	for _, relPath := range files {
		content, err := ProcessSingleFile(fsys, relPath, logger)
		if err != nil {
			return written, err
		}
		if _, err := writer.WriteString(formatRecord(content)); err != nil {
			logger.Error("Failed to write record", zap.String("contentPath", content.Path), zap.Error(err))
			return written, fmt.Errorf("failed to write content: %w", err)
		}
		written++
	}

	if err := writer.Flush(); err != nil {
		return written, fmt.Errorf("failed to flush output: %w", err)
	}
	return written, nil
}

// formatRecord renders a file as separator line, path line and contents.
func formatRecord(content FileContent) string {
	return RecordSeparator + "\n" + content.Path + "\n" + content.Content + "\n"
}

// WriteCombinedFile creates outputPath and writes the document body into it.
// The file is closed on every path; a partially written file is removed.
func WriteCombinedFile(outputPath, preamble string, fsys billy.Filesystem, files []string, logger *zap.Logger) (written int, err error) {
	logger.Debug("Writing combined content to output file", zap.String("combinedFile", outputPath))

	if err := ensureDirectory(filepath.Dir(outputPath), logger); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		logger.Error("Failed to create output file", zap.String("file", outputPath), zap.Error(err))
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			logger.Error("Failed to close output file", zap.String("file", outputPath), zap.Error(closeErr))
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
		if err != nil {
			if rmErr := os.Remove(outputPath); rmErr != nil {
				logger.Warn("Failed to remove incomplete output file", zap.String("file", outputPath), zap.Error(rmErr))
			}
		}
	}()

	return WriteDocument(outFile, preamble, fsys, files, logger)
}

// appendSentinel reopens outputPath and appends the end-of-content marker.
// On failure the output file is removed, since a document without the marker
// is incomplete.
func appendSentinel(outputPath string, logger *zap.Logger) (err error) {
	defer func() {
		if err == nil {
			return
		}
		if rmErr := os.Remove(outputPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			logger.Warn("Failed to remove incomplete output file", zap.String("file", outputPath), zap.Error(rmErr))
		}
	}()

	f, err := os.OpenFile(outputPath, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		logger.Error("Failed to reopen output file", zap.String("file", outputPath), zap.Error(err))
		return fmt.Errorf("failed to reopen output file: %w", err)
	}
	if _, err := f.WriteString(Sentinel); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write end marker: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}
