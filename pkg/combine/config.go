// File: pkg/combine/config.go
package combine

import "gptloader/pkg/patterns"

// Arguments holds the configuration options for one serialization run.
type Arguments struct {
	Repository   string                 // Local path, or remote URL when Clone is set.
	Clone        bool                   // Clone the repository, or pull it if already cloned.
	CloneDir     string                 // Parent directory for clones; defaults to the working directory.
	GitBackend   string                 // "exec" (git binary) or "native" (go-git).
	PreambleFile string                 // Optional file whose contents replace the default preamble.
	Output       string                 // Destination path; defaults to <repository name>.txt.
	Patterns     patterns.LoaderOptions // Pattern file lookup and extra patterns.
}

// FileContent is one record of the output document.
type FileContent struct {
	Path    string // Path relative to the repository root.
	Content string // File contents with invalid UTF-8 removed.
}
