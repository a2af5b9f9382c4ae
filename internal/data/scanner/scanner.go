package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// FileScanner finds replay segment files under a directory. Exports write
// one file per flushed segment, either as a JSON event array (.json) or as
// event lines (.jsonl).
type FileScanner struct {
	baseDir string
}

// NewFileScanner creates a new FileScanner instance. baseDir may also be a
// single segment file, in which case Scan returns just that file.
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{baseDir: baseDir}
}

// Scan walks the directory and returns every segment file path. Unreadable
// entries are skipped rather than failing the scan.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if isSegmentFile(path) {
			files = append(files, path)
		}

		return nil
	})

	duration := time.Since(start)
	util.LogDebug(fmt.Sprintf("Segment scan completed: duration %v, scanned %d directories, %d files, found %d segment files",
		duration, dirCount, totalCount, len(files)))

	return files, err
}

func isSegmentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl":
		return true
	}
	return false
}
