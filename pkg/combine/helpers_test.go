package combine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWriteDocument(t *testing.T) {
	fsys := memRepo(t, map[string]string{
		"a.txt":   "hello",
		"b/c.txt": "line1\nline2\n",
	})

	var buf bytes.Buffer
	n, err := WriteDocument(&buf, "PREAMBLE\n", fsys, []string{"a.txt", filepath.FromSlash("b/c.txt")}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := "PREAMBLE\n" +
		"----\na.txt\nhello\n" +
		"----\n" + filepath.FromSlash("b/c.txt") + "\nline1\nline2\n\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDocumentNoFiles(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteDocument(&buf, DefaultPreamble, memfs.New(), nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, DefaultPreamble, buf.String())
}

func TestWriteDocumentMissingFile(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteDocument(&buf, "", memfs.New(), []string{"gone.txt"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestWriteDocumentStopsAtFirstUnreadableFile(t *testing.T) {
	fsys := memRepo(t, map[string]string{"a.txt": "a", "c.txt": "c"})

	var buf bytes.Buffer
	n, err := WriteDocument(&buf, "", fsys, []string{"a.txt", "b.txt", "c.txt"}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.txt")
	assert.Equal(t, 1, n)
}

func TestProcessSingleFileDropsInvalidUTF8(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, fsPath("bin.dat"), []byte("ok\xff\xfe-done\x00é"), 0o644))

	content, err := ProcessSingleFile(fsys, "bin.dat", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "bin.dat", content.Path)
	assert.Equal(t, "ok-done\x00é", content.Content)
}

func TestWriteCombinedFileRemovesPartialOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out.txt")

	_, err := WriteCombinedFile(out, "P\n", memfs.New(), []string{"missing.txt"}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestWriteCombinedFileAndSentinel(t *testing.T) {
	fsys := memRepo(t, map[string]string{"a.txt": "hello"})
	out := filepath.Join(t.TempDir(), "out", "repo.txt")
	logger := zaptest.NewLogger(t)

	n, err := WriteCombinedFile(out, "P\n", fsys, []string{"a.txt"}, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, appendSentinel(out, logger))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "P\n----\na.txt\nhello\n--END--", string(data))
}

func TestAppendSentinelMissingFile(t *testing.T) {
	err := appendSentinel(filepath.Join(t.TempDir(), "nope.txt"), zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestAppendSentinelFailureRemovesOutput(t *testing.T) {
	// A directory at the output path cannot be opened for writing.
	out := filepath.Join(t.TempDir(), "repo.txt")
	require.NoError(t, os.Mkdir(out, 0o755))

	err := appendSentinel(out, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.NoDirExists(t, out)
}
