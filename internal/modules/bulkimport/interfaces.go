package bulkimport

import (
	"context"

	"geoimport/internal/domain"
)

// LocationWriter stores a batch atomically: either every location is visible
// afterwards or none is.
type LocationWriter interface {
	InsertBatch(ctx context.Context, locations []domain.Location) (int64, error)
}
