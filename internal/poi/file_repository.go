package poi

import (
	"context"
	"fmt"
	"os"
)

// FileRepository loads the dataset from a JSON file on disk. Used for local
// development and as the fallback when no database is configured.
type FileRepository struct {
	path string
}

// NewFileRepository creates a file-backed dataset repository.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// LoadAll reads and decodes the dataset file.
func (r *FileRepository) LoadAll(_ context.Context) ([]*POI, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", r.path, err)
	}

	pois, err := DecodeDataset(data)
	if err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", r.path, err)
	}
	if len(pois) == 0 {
		return nil, ErrEmptyDataset
	}
	return pois, nil
}
