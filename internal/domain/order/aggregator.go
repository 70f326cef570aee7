package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lims/lims/internal/domain/catalog"
	"github.com/lims/lims/internal/platform/apperror"
)

// TestCatalog is the slice of the catalog service the order domain needs:
// live tests by id, with missing and soft-deleted ids simply absent from
// the result.
type TestCatalog interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Test, error)
}

// PatientDirectory answers existence checks against live patients.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// UnavailableTestsError names the catalog tests that block an order. It
// rides inside a validation-kind failure so callers can list the offending
// codes with errors.As.
type UnavailableTestsError struct {
	Codes []string
}

func (e *UnavailableTestsError) Error() string {
	return "tests unavailable: " + strings.Join(e.Codes, ", ")
}

// quote holds the derived fields for a test set.
type quote struct {
	TotalCost decimal.Decimal
	ReadyDate time.Time
}

// buildQuote prices a test set. Every requested id must resolve to a live
// test; a shorter result means at least one is missing (duplicate ids in
// the request fail the same way, since the store returns each row once).
// All resolved tests must be available; the failure names the offenders.
// TotalCost sums the prices and ReadyDate is now plus the largest
// turnaround, so the slowest test dictates the pickup date.
func buildQuote(requested []uuid.UUID, tests []*catalog.Test, now time.Time) (quote, error) {
	if len(tests) != len(requested) {
		return quote{}, apperror.NotFoundf("test not found")
	}

	var unavailable []string
	total := decimal.Zero
	maxDays := 0
	for _, t := range tests {
		if !t.IsAvailable {
			unavailable = append(unavailable, t.Code)
			continue
		}
		total = total.Add(t.Price)
		if t.TurnaroundDays > maxDays {
			maxDays = t.TurnaroundDays
		}
	}
	if len(unavailable) > 0 {
		return quote{}, apperror.Wrap(apperror.KindValidation, "", &UnavailableTestsError{Codes: unavailable})
	}

	return quote{TotalCost: total, ReadyDate: now.AddDate(0, 0, maxDays)}, nil
}
