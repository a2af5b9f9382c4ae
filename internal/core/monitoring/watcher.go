package monitoring

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
	"github.com/sam16vis/go-replay-inspector/internal/util"
)

// FileWatcher reports changes to replay segment files so the inspector can
// reload a replay that is still being exported.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	paths   []string
	events  chan model.FileEvent
}

func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		paths:   paths,
		events:  make(chan model.FileEvent, 100),
	}

	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// Watching the parent catches truncate-and-rewrite exporters that
		// replace the file instead of appending
		return fw.watcher.Add(filepath.Dir(path))
	}

	// Recursively add directories
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return fw.watcher.Add(p)
		}
		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if isSegmentFile(event.Name) {
				fw.events <- model.FileEvent{
					Path:      event.Name,
					Operation: event.Op.String(),
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("Segment monitoring error: " + err.Error())
		}
	}
}

// isSegmentFile reports whether a path looks like a replay segment export.
func isSegmentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl":
		return true
	default:
		return false
	}
}

func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
