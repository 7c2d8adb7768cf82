package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"gptloader/cmd"
	"gptloader/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		if logging.Logger.Core().Enabled(zap.ErrorLevel) {
			logging.Logger.Error("gptloader execution failed", zap.Error(err))
		} else {
			// Failed before the logger was built, e.g. a missing argument.
			log.SetFlags(0)
			log.Printf("Error: %v", err)
		}
	}

	// Syncing a console stderr returns EINVAL on some platforms.
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logging.Logger.Sync(); syncErr != nil {
			if !strings.Contains(strings.ToLower(syncErr.Error()), "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}

	if err != nil {
		os.Exit(1)
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
