package poi

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository loads the dataset from PostgreSQL. Each row stores the
// original dataset record as JSONB so the file and database paths share one
// decoder.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL dataset repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// LoadAll reads every POI record.
func (r *PostgresRepository) LoadAll(ctx context.Context) ([]*POI, error) {
	rows, err := r.pool.Query(ctx, `SELECT record FROM pois ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query pois: %w", err)
	}
	defer rows.Close()

	var pois []*POI
	for rows.Next() {
		var record datasetRecord
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan poi record: %w", err)
		}
		if p := record.toPOI(); p != nil {
			pois = append(pois, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pois: %w", err)
	}
	if len(pois) == 0 {
		return nil, ErrEmptyDataset
	}
	return pois, nil
}
