package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lims/lims/internal/platform/store"
	"github.com/lims/lims/pkg/pagination"
)

const patientCols = `p.id, p.name, p.dob, p.gender, p.phone, p.address, p.created_at, p.updated_at, p.deleted_at`

var patientRel = store.Rel{Table: "patient", Alias: "p", Cols: patientCols}

type repoPG struct {
	st *store.Store
}

// NewRepoPG returns the pgx-backed patient repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{st: store.New(pool, patientRel)}
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.DOB, &p.Gender, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	row := r.st.QueryRow(ctx, `
		INSERT INTO patient (id, name, dob, gender, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.DOB, p.Gender, p.Phone, p.Address)
	return row.Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.st.SelectByID(ctx, store.Live, id))
}

func (r *repoPG) GetByIDAny(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.st.SelectByID(ctx, store.All, id))
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.st.Exists(ctx, store.Live, id)
}

func (r *repoPG) List(ctx context.Context, f ListFilter, pg pagination.Params) ([]*Patient, int, error) {
	flt := store.NewFilter()
	if f.Name != "" {
		flt.Contains("p.name", f.Name)
	}
	if f.Gender != "" {
		flt.Eq("p.gender", f.Gender)
	}
	if f.Phone != "" {
		flt.Contains("p.phone", f.Phone)
	}
	if f.Search != "" {
		flt.Or(func(g *store.Filter) {
			g.Contains("p.name", f.Search)
			g.Contains("p.phone", f.Search)
			g.Contains("p.address", f.Search)
		})
	}

	rows, total, err := r.st.SelectPage(ctx, store.Live, flt, "", pg)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, req UpdatePatientRequest) (*Patient, error) {
	set := store.NewSet()
	if req.Name != nil {
		set.Set("name", *req.Name)
	}
	if req.DOB != nil {
		set.Set("dob", *req.DOB)
	}
	if req.Gender != nil {
		set.Set("gender", *req.Gender)
	}
	if req.Phone != nil {
		set.Set("phone", *req.Phone)
	}
	if req.Address != nil {
		set.Set("address", *req.Address)
	}
	if set.Empty() {
		return r.GetByID(ctx, id)
	}
	if err := r.st.UpdateByID(ctx, id, set); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.st.SoftDeleteByID(ctx, id)
}

func (r *repoPG) FindCandidates(ctx context.Context, from, to time.Time, words []string) ([]*Patient, error) {
	f := store.NewFilter().Gte("p.dob", from).Lte("p.dob", to)
	f.Or(func(g *store.Filter) {
		for _, w := range words {
			g.Contains("p.name", w)
		}
	})

	rows, err := r.st.SelectAll(ctx, store.Live, f, "")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

func collectPatients(rows pgx.Rows) ([]*Patient, error) {
	items := []*Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
