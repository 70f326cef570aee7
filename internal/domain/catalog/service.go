package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lims/lims/internal/platform/apperror"
	"github.com/lims/lims/pkg/pagination"
)

// codeRe matches test codes: uppercase alphanumeric with hyphens and
// underscores, e.g. CBC, LIPID-PANEL, HBA1C_V2. Codes are not required to
// be unique.
var codeRe = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// Service implements the test catalog operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateTestRequest) (*Test, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validationf("name is required")
	}
	if !codeRe.MatchString(req.Code) {
		return nil, apperror.Validationf("invalid code: %s (expected uppercase letters, digits, hyphens or underscores)", req.Code)
	}
	if !req.Price.IsPositive() {
		return nil, apperror.Validationf("price must be greater than 0")
	}
	if req.TurnaroundDays < 0 {
		return nil, apperror.Validationf("turnaround_days cannot be negative")
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	t := &Test{
		Code:           req.Code,
		Name:           req.Name,
		Price:          req.Price,
		TurnaroundDays: req.TurnaroundDays,
		IsAvailable:    available,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, apperror.Internal(err)
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Test, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("test not found")
		}
		return nil, apperror.Internal(err)
	}
	return t, nil
}

// GetAny looks a test up regardless of its soft-delete state.
func (s *Service) GetAny(ctx context.Context, id uuid.UUID) (*Test, error) {
	t, err := s.repo.GetByIDAny(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("test not found")
		}
		return nil, apperror.Internal(err)
	}
	return t, nil
}

// GetByIDs fetches live tests for the given ids. Callers compare the result
// length against the request to detect missing or soft-deleted tests.
func (s *Service) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Test, error) {
	tests, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return tests, nil
}

func (s *Service) List(ctx context.Context, f ListFilter, pg pagination.Params) ([]*Test, int, error) {
	items, total, err := s.repo.List(ctx, f, pg)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateTestRequest) (*Test, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperror.Validationf("name cannot be empty")
	}
	if req.Code != nil && !codeRe.MatchString(*req.Code) {
		return nil, apperror.Validationf("invalid code: %s (expected uppercase letters, digits, hyphens or underscores)", *req.Code)
	}
	if req.Price != nil && !req.Price.IsPositive() {
		return nil, apperror.Validationf("price must be greater than 0")
	}
	if req.TurnaroundDays != nil && *req.TurnaroundDays < 0 {
		return nil, apperror.Validationf("turnaround_days cannot be negative")
	}

	t, err := s.repo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("test not found")
		}
		return nil, apperror.Internal(err)
	}
	return t, nil
}

// Delete soft-deletes a test and returns its pre-delete state. Existing
// orders keep referencing the test; it only stops being orderable.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Test, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("test not found")
		}
		return nil, apperror.Internal(err)
	}
	return t, nil
}
