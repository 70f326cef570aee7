package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lims/lims/internal/domain/catalog"
)

// Order statuses. Any of the four may be set at creation or update; there
// is no transition graph.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

var validStatuses = map[string]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// Order maps to the lab_order table. TotalCost and ReadyDate are derived
// from the selected tests; they are never accepted from a request.
type Order struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	PatientID uuid.UUID       `db:"patient_id" json:"patient_id"`
	TotalCost decimal.Decimal `db:"total_cost" json:"total_cost"`
	ReadyDate time.Time       `db:"ready_date" json:"ready_date"`
	Status    string          `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time      `db:"deleted_at" json:"deleted_at,omitempty"`
	Tests     []OrderTest     `db:"-" json:"order_tests"`
}

// OrderTest maps to the order_test join table. Rows live and die with
// their parent order's test set. Test carries the referenced catalog row
// when it is still live; a soft-deleted test leaves it nil.
type OrderTest struct {
	ID      uuid.UUID     `db:"id" json:"id"`
	OrderID uuid.UUID     `db:"order_id" json:"order_id"`
	TestID  uuid.UUID     `db:"test_id" json:"test_id"`
	Test    *catalog.Test `db:"-" json:"test,omitempty"`
}

// CreateOrderRequest is the payload for placing an order.
type CreateOrderRequest struct {
	PatientID uuid.UUID   `json:"patient_id" validate:"required"`
	TestIDs   []uuid.UUID `json:"test_ids" validate:"required,min=1"`
	Status    *string     `json:"status" validate:"omitempty,oneof=PENDING PROCESSING COMPLETED CANCELLED"`
}

// UpdateOrderRequest is a partial update. A non-nil TestIDs replaces the
// whole test set and recomputes cost and ready date.
type UpdateOrderRequest struct {
	Status  *string      `json:"status" validate:"omitempty,oneof=PENDING PROCESSING COMPLETED CANCELLED"`
	TestIDs *[]uuid.UUID `json:"test_ids"`
}

// ListFilter holds the query filters accepted by the order listing.
// Search matches the associated patient's name.
type ListFilter struct {
	PatientID     *uuid.UUID
	Status        string
	MinTotalCost  *decimal.Decimal
	MaxTotalCost  *decimal.Decimal
	ReadyDateFrom *time.Time
	ReadyDateTo   *time.Time
	Search        string
}
