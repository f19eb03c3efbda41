package poi

import "context"

// MemoryRepository is an in-memory Repository, used in tests and as a seed
// store for environments without a dataset source.
type MemoryRepository struct {
	pois []*POI
}

// NewMemoryRepository creates an in-memory repository over the given POIs.
func NewMemoryRepository(pois []*POI) *MemoryRepository {
	return &MemoryRepository{pois: pois}
}

// LoadAll returns the stored POIs.
func (r *MemoryRepository) LoadAll(_ context.Context) ([]*POI, error) {
	if len(r.pois) == 0 {
		return nil, ErrEmptyDataset
	}
	out := make([]*POI, len(r.pois))
	copy(out, r.pois)
	return out, nil
}
