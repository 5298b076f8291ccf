package expense

import (
	"fmt"
	"os"
	"path/filepath"
)

// Archive keeps raw upstream responses that could not be parsed, for diagnosis
type Archive interface {
	// Save writes data under name and returns where it was stored
	Save(name string, data []byte) (string, error)
}

// LocalArchive implements Archive on the local filesystem
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates the archive directory if needed
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	return &LocalArchive{
		basePath: basePath,
	}, nil
}

// Save writes a file into the archive directory
func (l *LocalArchive) Save(name string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return path, nil
}
