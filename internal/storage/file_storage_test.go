package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()

	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestSaveAndLoadJSON(t *testing.T) {
	fs := newTestStorage(t)

	doc := testDoc{Name: "margaret", Count: 3}
	require.NoError(t, fs.SaveJSON("users", "doc.json", doc))

	var loaded testDoc
	require.NoError(t, fs.LoadJSON("users", "doc.json", &loaded))
	assert.Equal(t, doc, loaded)
}

func TestSaveCreatesDirectories(t *testing.T) {
	fs := newTestStorage(t)

	require.NoError(t, fs.SaveRaw("a/b/c", "file.txt", []byte("content")))
	assert.True(t, fs.FileExists("a/b/c", "file.txt"))
}

func TestSaveInvalidatesReadCache(t *testing.T) {
	fs := newTestStorage(t)

	require.NoError(t, fs.SaveRaw("dir", "file.txt", []byte("one")))

	content, err := fs.LoadRaw("dir", "file.txt")
	require.NoError(t, err)
	assert.Equal(t, "one", string(content))

	// The second save must not be masked by the cached first read.
	require.NoError(t, fs.SaveRaw("dir", "file.txt", []byte("two")))

	content, err = fs.LoadRaw("dir", "file.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", string(content))
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	fs := newTestStorage(t)

	require.NoError(t, fs.SaveRaw("dir", "file.txt", []byte("content")))

	entries, err := os.ReadDir(filepath.Join(fs.BaseDir, "dir"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file.txt", entries[0].Name())
}

func TestLoadMissingFile(t *testing.T) {
	fs := newTestStorage(t)

	_, err := fs.LoadRaw("dir", "missing.txt")
	assert.Error(t, err)

	var doc testDoc
	assert.Error(t, fs.LoadJSON("dir", "missing.json", &doc))
}

func TestDeleteFile(t *testing.T) {
	fs := newTestStorage(t)

	require.NoError(t, fs.SaveRaw("dir", "file.txt", []byte("x")))
	require.NoError(t, fs.DeleteFile("dir", "file.txt"))
	assert.False(t, fs.FileExists("dir", "file.txt"))

	assert.Error(t, fs.DeleteFile("dir", "file.txt"), "deleting twice fails")
}

func TestListFiles(t *testing.T) {
	fs := newTestStorage(t)

	require.NoError(t, fs.SaveRaw("dir", "a.json", []byte("{}")))
	require.NoError(t, fs.SaveRaw("dir", "b.json", []byte("{}")))
	require.NoError(t, fs.SaveRaw("dir", "notes.txt", []byte("x")))

	files, err := fs.ListFiles("dir", ".json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.json", "b.json"}, files)

	all, err := fs.ListFiles("dir", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	missing, err := fs.ListFiles("no-such-dir", "")
	require.NoError(t, err, "a missing directory is treated as empty")
	assert.Nil(t, missing)
}
