package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lims/lims/internal/platform/apperror"
	"github.com/lims/lims/pkg/pagination"
)

// Service implements the patient operations.
type Service struct {
	repo    Repository
	matcher *Matcher
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, matcher: NewMatcher(repo)}
}

func (s *Service) Create(ctx context.Context, req CreatePatientRequest) (*Patient, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validationf("name is required")
	}
	if req.DOB.IsZero() {
		return nil, apperror.Validationf("dob is required")
	}
	if !validGenders[req.Gender] {
		return nil, apperror.Validationf("invalid gender: %s", req.Gender)
	}

	// The duplicate check and the insert are not atomic; two concurrent
	// registrations of the same person can both pass the check.
	dup, err := s.matcher.FindDuplicate(ctx, req.Name, req.DOB)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if dup != nil {
		return nil, apperror.Conflictf("patient with a similar name and the same date of birth already exists: %s", dup.ID)
	}

	p := &Patient{
		Name:    req.Name,
		DOB:     req.DOB,
		Gender:  req.Gender,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperror.Internal(err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("patient not found")
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}

// GetAny looks a patient up regardless of its soft-delete state.
func (s *Service) GetAny(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByIDAny(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("patient not found")
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}

// Exists reports whether a live patient with the given id exists.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, apperror.Internal(err)
	}
	return ok, nil
}

func (s *Service) List(ctx context.Context, f ListFilter, pg pagination.Params) ([]*Patient, int, error) {
	items, total, err := s.repo.List(ctx, f, pg)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return items, total, nil
}

// Update applies a partial update. Renaming or changing the date of birth
// does not re-run the duplicate matcher; only registration does.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdatePatientRequest) (*Patient, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperror.Validationf("name cannot be empty")
	}
	if req.Gender != nil && !validGenders[*req.Gender] {
		return nil, apperror.Validationf("invalid gender: %s", *req.Gender)
	}

	p, err := s.repo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("patient not found")
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}

// Delete soft-deletes a patient and returns its pre-delete state.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundf("patient not found")
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}
