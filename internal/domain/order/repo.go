package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lims/lims/pkg/pagination"
)

// UpdateSet carries the computed column changes for an order update. A
// non-nil TestIDs replaces the join rows wholesale inside the same
// transaction as the column update.
type UpdateSet struct {
	Status    *string
	TotalCost *decimal.Decimal
	ReadyDate *time.Time
	TestIDs   []uuid.UUID
}

// Repository is the storage contract for orders. Orders come back with
// their join rows attached. Reads exclude soft-deleted orders; the Any
// variant bypasses that rule. Missing rows surface as pgx.ErrNoRows.
type Repository interface {
	// Create inserts the order and its join rows as one transaction.
	Create(ctx context.Context, o *Order, testIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByIDAny(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, f ListFilter, pg pagination.Params) ([]*Order, int, error)
	Update(ctx context.Context, id uuid.UUID, set UpdateSet) (*Order, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
