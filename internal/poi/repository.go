package poi

import (
	"context"
	"errors"
)

// Repository errors.
var (
	// ErrEmptyDataset is returned when a repository yields no POIs at all.
	ErrEmptyDataset = errors.New("poi dataset is empty")
)

// Repository loads the POI dataset. Implementations are read at startup
// only; the planner never writes back.
type Repository interface {
	// LoadAll returns every POI in the dataset.
	LoadAll(ctx context.Context) ([]*POI, error)
}
