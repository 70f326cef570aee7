package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/lims/lims/pkg/pagination"
)

// Repository is the storage contract for the test catalog. Reads exclude
// soft-deleted rows; the Any variants bypass that rule for administrative
// lookups. Missing rows surface as pgx.ErrNoRows.
type Repository interface {
	Create(ctx context.Context, t *Test) error
	GetByID(ctx context.Context, id uuid.UUID) (*Test, error)
	GetByIDAny(ctx context.Context, id uuid.UUID) (*Test, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Test, error)
	List(ctx context.Context, f ListFilter, pg pagination.Params) ([]*Test, int, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateTestRequest) (*Test, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
