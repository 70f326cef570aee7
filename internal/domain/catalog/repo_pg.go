package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lims/lims/internal/platform/store"
	"github.com/lims/lims/pkg/pagination"
)

const testCols = `t.id, t.code, t.name, t.price, t.turnaround_days, t.is_available, t.created_at, t.updated_at, t.deleted_at`

var testRel = store.Rel{Table: "test", Alias: "t", Cols: testCols}

type repoPG struct {
	st *store.Store
}

// NewRepoPG returns the pgx-backed catalog repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{st: store.New(pool, testRel)}
}

func scanTest(row pgx.Row) (*Test, error) {
	var t Test
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Price, &t.TurnaroundDays, &t.IsAvailable, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repoPG) Create(ctx context.Context, t *Test) error {
	t.ID = uuid.New()
	row := r.st.QueryRow(ctx, `
		INSERT INTO test (id, code, name, price, turnaround_days, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		t.ID, t.Code, t.Name, t.Price, t.TurnaroundDays, t.IsAvailable)
	return row.Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Test, error) {
	return scanTest(r.st.SelectByID(ctx, store.Live, id))
}

func (r *repoPG) GetByIDAny(ctx context.Context, id uuid.UUID) (*Test, error) {
	return scanTest(r.st.SelectByID(ctx, store.All, id))
}

func (r *repoPG) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Test, error) {
	if len(ids) == 0 {
		return []*Test{}, nil
	}
	f := store.NewFilter()
	f.In("t.id", ids)
	rows, err := r.st.SelectAll(ctx, store.Live, f, "")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTests(rows)
}

func (r *repoPG) List(ctx context.Context, f ListFilter, pg pagination.Params) ([]*Test, int, error) {
	flt := store.NewFilter()
	if f.Name != "" {
		flt.Contains("t.name", f.Name)
	}
	if f.IsAvailable != nil {
		flt.Eq("t.is_available", *f.IsAvailable)
	}
	if f.MinPrice != nil {
		flt.Gte("t.price", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		flt.Lte("t.price", *f.MaxPrice)
	}
	if f.Search != "" {
		flt.Or(func(g *store.Filter) {
			g.Contains("t.name", f.Search)
			g.Contains("t.code", f.Search)
		})
	}

	rows, total, err := r.st.SelectPage(ctx, store.Live, flt, "", pg)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectTests(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, req UpdateTestRequest) (*Test, error) {
	set := store.NewSet()
	if req.Code != nil {
		set.Set("code", *req.Code)
	}
	if req.Name != nil {
		set.Set("name", *req.Name)
	}
	if req.Price != nil {
		set.Set("price", *req.Price)
	}
	if req.TurnaroundDays != nil {
		set.Set("turnaround_days", *req.TurnaroundDays)
	}
	if req.IsAvailable != nil {
		set.Set("is_available", *req.IsAvailable)
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

func collectTests(rows pgx.Rows) ([]*Test, error) {
	items := []*Test{}
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
