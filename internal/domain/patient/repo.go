package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lims/lims/pkg/pagination"
)

// Repository is the storage contract for patients. Reads exclude soft-deleted
// rows; the Any variants bypass that rule for administrative lookups. Missing
// rows surface as pgx.ErrNoRows.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByIDAny(ctx context.Context, id uuid.UUID) (*Patient, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, f ListFilter, pg pagination.Params) ([]*Patient, int, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePatientRequest) (*Patient, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// FindCandidates returns live patients born between from and to whose
	// name contains at least one of the words, newest first. It is the
	// coarse pass of the duplicate matcher; the exact word-subset rule
	// runs in memory on the result.
	FindCandidates(ctx context.Context, from, to time.Time, words []string) ([]*Patient, error)
}
