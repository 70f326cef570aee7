package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lims/lims/internal/domain/catalog"
	"github.com/lims/lims/internal/platform/db"
	"github.com/lims/lims/internal/platform/store"
	"github.com/lims/lims/pkg/pagination"
)

const orderCols = `o.id, o.patient_id, o.total_cost, o.ready_date, o.status, o.created_at, o.updated_at, o.deleted_at`

// The patient join serves the search filter; soft-delete scoping applies
// to the order side only.
var orderRel = store.Rel{
	Table: "lab_order",
	Alias: "o",
	Cols:  orderCols,
	Join:  "JOIN patient p ON p.id = o.patient_id",
}

type repoPG struct {
	st   *store.Store
	pool *pgxpool.Pool
}

// NewRepoPG returns the pgx-backed order repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{st: store.New(pool, orderRel), pool: pool}
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.PatientID, &o.TotalCost, &o.ReadyDate, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repoPG) Create(ctx context.Context, o *Order, testIDs []uuid.UUID) error {
	o.ID = uuid.New()
	return db.RunInTx(ctx, r.pool, func(txCtx context.Context) error {
		row := r.st.QueryRow(txCtx, `
			INSERT INTO lab_order (id, patient_id, total_cost, ready_date, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at`,
			o.ID, o.PatientID, o.TotalCost, o.ReadyDate, o.Status)
		if err := row.Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
			return err
		}
		return r.insertOrderTests(txCtx, o.ID, testIDs)
	})
}

func (r *repoPG) insertOrderTests(ctx context.Context, orderID uuid.UUID, testIDs []uuid.UUID) error {
	for _, testID := range testIDs {
		if _, err := r.st.Exec(ctx, `
			INSERT INTO order_test (id, order_id, test_id)
			VALUES ($1, $2, $3)`,
			uuid.New(), orderID, testID); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.getByID(ctx, store.Live, id)
}

func (r *repoPG) GetByIDAny(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.getByID(ctx, store.All, id)
}

func (r *repoPG) getByID(ctx context.Context, vis store.Visibility, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.st.SelectByID(ctx, vis, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachOrderTests(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repoPG) List(ctx context.Context, f ListFilter, pg pagination.Params) ([]*Order, int, error) {
	flt := store.NewFilter()
	if f.PatientID != nil {
		flt.Eq("o.patient_id", *f.PatientID)
	}
	if f.Status != "" {
		flt.Eq("o.status", f.Status)
	}
	if f.MinTotalCost != nil {
		flt.Gte("o.total_cost", *f.MinTotalCost)
	}
	if f.MaxTotalCost != nil {
		flt.Lte("o.total_cost", *f.MaxTotalCost)
	}
	if f.ReadyDateFrom != nil {
		flt.Gte("o.ready_date", *f.ReadyDateFrom)
	}
	if f.ReadyDateTo != nil {
		flt.Lte("o.ready_date", *f.ReadyDateTo)
	}
	if f.Search != "" {
		flt.Contains("p.name", f.Search)
	}

	rows, total, err := r.st.SelectPage(ctx, store.Live, flt, "", pg)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachOrderTests(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// attachOrderTests loads the join rows for a batch of orders in one query.
// The test join keeps soft-deleted tests out of the embed, leaving only
// the bare reference.
func (r *repoPG) attachOrderTests(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		o.Tests = []OrderTest{}
	}

	rows, err := r.st.Query(ctx, `
		SELECT ot.id, ot.order_id, ot.test_id,
		       t.id, t.code, t.name, t.price, t.turnaround_days, t.is_available, t.created_at, t.updated_at, t.deleted_at
		FROM order_test ot
		LEFT JOIN test t ON t.id = ot.test_id AND t.deleted_at IS NULL
		WHERE ot.order_id = ANY($1)
		ORDER BY ot.id`,
		ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byOrder := make(map[uuid.UUID][]OrderTest, len(orders))
	for rows.Next() {
		var ot OrderTest
		var (
			tID      *uuid.UUID
			tCode    *string
			tName    *string
			tPrice   *decimal.Decimal
			tDays    *int
			tAvail   *bool
			tCreated *time.Time
			tUpdated *time.Time
			tDeleted *time.Time
		)
		if err := rows.Scan(&ot.ID, &ot.OrderID, &ot.TestID,
			&tID, &tCode, &tName, &tPrice, &tDays, &tAvail, &tCreated, &tUpdated, &tDeleted); err != nil {
			return err
		}
		if tID != nil {
			ot.Test = &catalog.Test{
				ID:             *tID,
				Code:           *tCode,
				Name:           *tName,
				Price:          *tPrice,
				TurnaroundDays: *tDays,
				IsAvailable:    *tAvail,
				CreatedAt:      *tCreated,
				UpdatedAt:      *tUpdated,
				DeletedAt:      tDeleted,
			}
		}
		byOrder[ot.OrderID] = append(byOrder[ot.OrderID], ot)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, o := range orders {
		if tests, ok := byOrder[o.ID]; ok {
			o.Tests = tests
		}
	}
	return nil
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, set UpdateSet) (*Order, error) {
	sc := store.NewSet()
	if set.Status != nil {
		sc.Set("status", *set.Status)
	}
	if set.TotalCost != nil {
		sc.Set("total_cost", *set.TotalCost)
	}
	if set.ReadyDate != nil {
		sc.Set("ready_date", *set.ReadyDate)
	}
	if sc.Empty() && set.TestIDs == nil {
		return r.GetByID(ctx, id)
	}

	err := db.RunInTx(ctx, r.pool, func(txCtx context.Context) error {
		if sc.Empty() {
			// Join replace alone must still verify the order is live.
			ok, err := r.st.Exists(txCtx, store.Live, id)
			if err != nil {
				return err
			}
			if !ok {
				return pgx.ErrNoRows
			}
		} else if err := r.st.UpdateByID(txCtx, id, sc); err != nil {
			return err
		}
		if set.TestIDs != nil {
			if _, err := r.st.Exec(txCtx, `DELETE FROM order_test WHERE order_id = $1`, id); err != nil {
				return err
			}
			return r.insertOrderTests(txCtx, id, set.TestIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	// Join rows stay in place; they become invisible with their order.
	return r.st.SoftDeleteByID(ctx, id)
}
