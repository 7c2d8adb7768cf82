// File: pkg/combine/file_processing.go
package combine

import (
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
)

// ProcessSingleFile reads one repository file as text. Byte sequences that are
// not valid UTF-8 are dropped rather than failing the run.
func ProcessSingleFile(fsys billy.Filesystem, relPath string, logger *zap.Logger) (FileContent, error) {
	logger.Debug("Reading file content", zap.String("filePath", relPath))

	fileBytes, err := util.ReadFile(fsys, fsPath(relPath))
	if err != nil {
		logger.Error("Failed to read file", zap.String("filePath", relPath), zap.Error(err))
		return FileContent{}, fmt.Errorf("error reading file %s: %w", relPath, err)
	}

	content := strings.ToValidUTF8(string(fileBytes), "")
	if dropped := len(fileBytes) - len(content); dropped > 0 {
		logger.Debug("Dropped undecodable bytes", zap.String("filePath", relPath), zap.Int("bytes", dropped))
	}

	return FileContent{
		Path:    relPath,
		Content: content,
	}, nil
}
