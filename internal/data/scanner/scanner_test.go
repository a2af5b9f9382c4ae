package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, baseDir string, paths []string) {
	t.Helper()
	for _, p := range paths {
		fullPath := filepath.Join(baseDir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte("[]"), 0644))
	}
}

func TestFileScannerScanEmptyDirectory(t *testing.T) {
	scanner := NewFileScanner(t.TempDir())

	files, err := scanner.Scan()

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScannerScanNonExistentDirectory(t *testing.T) {
	scanner := NewFileScanner("/path/that/does/not/exist")

	files, err := scanner.Scan()

	// Unreadable roots are skipped, not fatal
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScannerScanFindsSegmentFiles(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, []string{
		"0.json",
		"1.jsonl",
		"2.JSON", // Case insensitive
		"nested/3.json",
		"nested/deeper/4.jsonl",
		"readme.txt",
		"metadata.csv",
	})

	files, err := NewFileScanner(tempDir).Scan()

	require.NoError(t, err)
	require.Len(t, files, 5)
	assert.Contains(t, files, filepath.Join(tempDir, "0.json"))
	assert.Contains(t, files, filepath.Join(tempDir, "1.jsonl"))
	assert.Contains(t, files, filepath.Join(tempDir, "2.JSON"))
	assert.Contains(t, files, filepath.Join(tempDir, "nested/3.json"))
	assert.Contains(t, files, filepath.Join(tempDir, "nested/deeper/4.jsonl"))
}

func TestFileScannerExtensionMustBeLast(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, []string{
		"backup.json.bak",
		"archive.jsonl.old",
		"0.json",
	})

	files, err := NewFileScanner(tempDir).Scan()

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(tempDir, "0.json"), files[0])
}

func TestFileScannerScanSingleFile(t *testing.T) {
	tempDir := t.TempDir()
	segPath := filepath.Join(tempDir, "0.json")
	require.NoError(t, os.WriteFile(segPath, []byte("[]"), 0644))

	files, err := NewFileScanner(segPath).Scan()

	require.NoError(t, err)
	assert.Equal(t, []string{segPath}, files)
}

func TestFileScannerScanEmptySegmentFiles(t *testing.T) {
	tempDir := t.TempDir()
	empty := filepath.Join(tempDir, "empty.jsonl")
	require.NoError(t, os.WriteFile(empty, []byte{}, 0644))

	files, err := NewFileScanner(tempDir).Scan()

	require.NoError(t, err)
	assert.Equal(t, []string{empty}, files)
}
