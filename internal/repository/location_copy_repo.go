package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"geoimport/internal/domain"
)

// LocationCopyRepository streams a batch into PostgreSQL with COPY inside a
// transaction. Used instead of LocationRepository when the store is Postgres.
type LocationCopyRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewLocationCopyRepository(pool *pgxpool.Pool) *LocationCopyRepository {
	return &LocationCopyRepository{pool: pool, now: time.Now}
}

func (r *LocationCopyRepository) InsertBatch(ctx context.Context, locations []domain.Location) (int64, error) {
	if len(locations) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	createdAt := r.now().UTC()
	rows := make([][]any, 0, len(locations))
	for _, l := range locations {
		rows = append(rows, []any{l.UserID, l.Name, l.Latitude, l.Longitude, createdAt})
	}

	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"locations"},
		[]string{"user_id", "name", "latitude", "longitude", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy locations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit locations: %w", err)
	}
	return copied, nil
}
