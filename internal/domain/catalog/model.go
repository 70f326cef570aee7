package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Test maps to the test table. It describes one orderable laboratory test:
// what it costs and how many days the lab needs to produce a result.
type Test struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Code           string          `db:"code" json:"code"`
	Name           string          `db:"name" json:"name"`
	Price          decimal.Decimal `db:"price" json:"price"`
	TurnaroundDays int             `db:"turnaround_days" json:"turnaround_days"`
	IsAvailable    bool            `db:"is_available" json:"is_available"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time      `db:"deleted_at" json:"deleted_at,omitempty"`
}

// CreateTestRequest is the payload for registering a test in the catalog.
// IsAvailable defaults to true when omitted.
type CreateTestRequest struct {
	Code           string          `json:"code" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Price          decimal.Decimal `json:"price" validate:"required"`
	TurnaroundDays int             `json:"turnaround_days" validate:"gte=0"`
	IsAvailable    *bool           `json:"is_available"`
}

// UpdateTestRequest is a partial update; nil fields are left untouched.
type UpdateTestRequest struct {
	Code           *string          `json:"code"`
	Name           *string          `json:"name"`
	Price          *decimal.Decimal `json:"price"`
	TurnaroundDays *int             `json:"turnaround_days" validate:"omitempty,gte=0"`
	IsAvailable    *bool            `json:"is_available"`
}

// ListFilter holds the query filters accepted by the test listing.
type ListFilter struct {
	Name        string
	IsAvailable *bool
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Search      string
}
