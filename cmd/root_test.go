package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gptloader/pkg/combine"
	"gptloader/pkg/config"
	"gptloader/pkg/logging"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { logging.Logger = zap.NewNop() })

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootMissingArgumentPrintsUsage(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := runRoot(t)
	require.Error(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "gptloader <repository-path-or-url>")
}

func TestRootWritesDocument(t *testing.T) {
	chdir(t, t.TempDir())
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "app.log"), []byte("noise"), 0o644))
	output := filepath.Join(t.TempDir(), "dump.txt")

	out, err := runRoot(t, repo, "-o", output, "--no-fallback", "--ignore", "*.log")
	require.NoError(t, err)
	assert.Equal(t, "Repository contents written to "+output+".\n", out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, combine.DefaultPreamble))
	assert.Contains(t, doc, "----\nmain.go\npackage main\n")
	assert.NotContains(t, doc, "app.log")
	assert.True(t, strings.HasSuffix(doc, combine.Sentinel))
}

func TestRootFlagsOverrideConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "a.txt"), []byte("a"), 0o644))

	dir := t.TempDir()
	fromFile := filepath.Join(dir, "from-file.txt")
	fromFlag := filepath.Join(dir, "from-flag.txt")
	cfgPath := filepath.Join(dir, "gptloader.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: "+fromFile+"\npatterns:\n  fallback: false\n"), 0o600))

	_, err := runRoot(t, repo, "--config", cfgPath)
	require.NoError(t, err)
	assert.FileExists(t, fromFile)

	_, err = runRoot(t, repo, "--config", cfgPath, "-o", fromFlag)
	require.NoError(t, err)
	assert.FileExists(t, fromFlag)
}

func TestRootInvalidRepositoryFails(t *testing.T) {
	chdir(t, t.TempDir())
	output := filepath.Join(t.TempDir(), "out.txt")

	out, err := runRoot(t, filepath.Join(t.TempDir(), "missing"), "-o", output)
	require.Error(t, err)
	assert.NotContains(t, out, "Usage:")
	assert.NoFileExists(t, output)
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	a := &app{logger: zap.NewNop()}
	root := newRootCmd(a)
	require.NoError(t, root.ParseFlags([]string{"--git-backend", "native", "--include", "*.go", "--include", "*.md"}))

	cfg := config.Default()
	cfg.Output = "from-file.txt"
	cfg.Patterns.Include = []string{"*.py"}
	a.applyFlags(root, cfg)

	assert.Equal(t, "native", cfg.Git.Backend)
	assert.True(t, cfg.Patterns.Fallback)
	assert.Equal(t, "from-file.txt", cfg.Output)
	assert.Equal(t, []string{"*.py", "*.go", "*.md"}, cfg.Patterns.Include)

	require.NoError(t, root.ParseFlags([]string{"--no-fallback", "-d"}))
	a.applyFlags(root, cfg)
	assert.False(t, cfg.Patterns.Fallback)
	assert.True(t, cfg.Clone)
}

func TestVersionShort(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := runRoot(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	out, err = runRoot(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "gptloader version dev"))
}
