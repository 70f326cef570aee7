package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lims/lims/internal/domain/catalog"
	"github.com/lims/lims/internal/platform/apperror"
	"github.com/lims/lims/pkg/pagination"
)

// Service implements the order operations: placing orders against the
// patient directory and the test catalog, pricing them, and managing
// their lifecycle.
type Service struct {
	repo     Repository
	patients PatientDirectory
	tests    TestCatalog
}

func NewService(repo Repository, patients PatientDirectory, tests TestCatalog) *Service {
	return &Service{repo: repo, patients: patients, tests: tests}
}

func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if req.PatientID == uuid.Nil {
		return nil, apperror.Validationf("patient_id is required")
	}
	if len(req.TestIDs) == 0 {
		return nil, apperror.Validationf("test_ids must name at least one test")
	}
	status := StatusPending
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return nil, apperror.Validationf("invalid status: %s", *req.Status)
		}
		status = *req.Status
	}

	// The patient check and the test fetch are independent reads, so they
	// fan out concurrently.
	var (
		wg         sync.WaitGroup
		patientOK  bool
		patientErr error
		tests      []*catalog.Test
		testsErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		patientOK, patientErr = s.patients.Exists(ctx, req.PatientID)
	}()
	go func() {
		defer wg.Done()
		tests, testsErr = s.tests.GetByIDs(ctx, req.TestIDs)
	}()
	wg.Wait()

	if patientErr != nil {
		return nil, patientErr
	}
	if !patientOK {
		return nil, apperror.NotFoundf("patient not found")
	}
	if testsErr != nil {
		return nil, testsErr
	}

	q, err := buildQuote(req.TestIDs, tests, time.Now())
	if err != nil {
		return nil, err
	}

	o := &Order{
		PatientID: req.PatientID,
		TotalCost: q.TotalCost,
		ReadyDate: q.ReadyDate,
		Status:    status,
	}
	if err := s.repo.Create(ctx, o, req.TestIDs); err != nil {
		return nil, apperror.Internal(err)
	}
	// Re-read to attach the join rows with their test details.
	return s.Get(ctx, o.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("order not found")
		}
		return nil, apperror.Internal(err)
	}
	return o, nil
}

// GetAny looks an order up regardless of its soft-delete state.
func (s *Service) GetAny(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByIDAny(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("order not found")
		}
		return nil, apperror.Internal(err)
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, f ListFilter, pg pagination.Params) ([]*Order, int, error) {
	items, total, err := s.repo.List(ctx, f, pg)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return items, total, nil
}

// Update applies a partial update. A new test set atomically replaces the
// old join rows and reprices the order with "now" at update time. Status
// moves freely between the four values.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*Order, error) {
	set := UpdateSet{}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return nil, apperror.Validationf("invalid status: %s", *req.Status)
		}
		set.Status = req.Status
	}
	if req.TestIDs != nil {
		ids := *req.TestIDs
		if len(ids) == 0 {
			return nil, apperror.Validationf("test_ids must name at least one test")
		}
		tests, err := s.tests.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		q, err := buildQuote(ids, tests, time.Now())
		if err != nil {
			return nil, err
		}
		set.TotalCost = &q.TotalCost
		set.ReadyDate = &q.ReadyDate
		set.TestIDs = ids
	}

	o, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("order not found")
		}
		return nil, apperror.Internal(err)
	}
	return o, nil
}

// Delete soft-deletes an order and returns its pre-delete state.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("order not found")
		}
		return nil, apperror.Internal(err)
	}
	return o, nil
}
