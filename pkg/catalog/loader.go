package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meowafisha/meowafisha/pkg/event"
)

// Loader supplies the raw event records for one load cycle. The catalog
// replaces its working set wholesale on every Load, so implementations
// need no incremental semantics.
type Loader interface {
	Load() ([]event.Event, error)
}

// FileLoader reads the fetcher's events.json artifact.
type FileLoader struct {
	Path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

func (l *FileLoader) Load() ([]event.Event, error) {
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}
	var events []event.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events file: %w", err)
	}
	return events, nil
}
