package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lims/lims/internal/platform/db"
	"github.com/lims/lims/pkg/pagination"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Visibility controls whether reads see soft-deleted rows.
type Visibility int

const (
	// Live excludes soft-deleted rows. All application reads use this.
	Live Visibility = iota
	// All includes soft-deleted rows.
	All
)

// Rel describes the relation a Store reads from.
type Rel struct {
	// Table is the physical table name.
	Table string
	// Alias qualifies column references. Defaults to Table when empty.
	Alias string
	// Cols is the select list, qualified with Alias.
	Cols string
	// Join is an optional JOIN clause appended after the table.
	Join string
}

// Store executes reads and writes for one relation. Soft-delete visibility
// is applied in a single place here, so every read goes through the same
// exclusion rule instead of repeating it per query.
type Store struct {
	pool *pgxpool.Pool
	rel  Rel
}

func New(pool *pgxpool.Pool, rel Rel) *Store {
	return &Store{pool: pool, rel: rel}
}

func (s *Store) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

func (s *Store) alias() string {
	if s.rel.Alias != "" {
		return s.rel.Alias
	}
	return s.rel.Table
}

func (s *Store) from() string {
	f := s.rel.Table
	if s.rel.Alias != "" && s.rel.Alias != s.rel.Table {
		f += " " + s.rel.Alias
	}
	if s.rel.Join != "" {
		f += " " + s.rel.Join
	}
	return f
}

// where renders the WHERE clause for reads. Soft-deleted rows of the primary
// relation are excluded unless the caller asks for All visibility.
func (s *Store) where(vis Visibility, f *Filter) (string, []interface{}, int) {
	clause := ` WHERE 1=1`
	if vis == Live {
		clause += fmt.Sprintf(` AND %s.deleted_at IS NULL`, s.alias())
	}
	cond, args, idx := f.clause(1)
	return clause + cond, args, idx
}

// SelectPage runs the filtered count plus one page of rows. An empty orderBy
// sorts newest first. The caller owns the returned rows.
func (s *Store) SelectPage(ctx context.Context, vis Visibility, f *Filter, orderBy string, p pagination.Params) (pgx.Rows, int, error) {
	where, args, idx := s.where(vis, f)

	var total int
	if err := s.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM `+s.from()+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if orderBy == "" {
		orderBy = s.alias() + ".created_at DESC"
	}
	query := `SELECT ` + s.rel.Cols + ` FROM ` + s.from() + where +
		fmt.Sprintf(` ORDER BY %s LIMIT $%d OFFSET $%d`, orderBy, idx, idx+1)
	args = append(args, p.Limit, p.Offset())

	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// SelectAll runs the filtered select without pagination. An empty orderBy
// sorts newest first. The caller owns the returned rows.
func (s *Store) SelectAll(ctx context.Context, vis Visibility, f *Filter, orderBy string) (pgx.Rows, error) {
	where, args, _ := s.where(vis, f)
	if orderBy == "" {
		orderBy = s.alias() + ".created_at DESC"
	}
	return s.conn(ctx).Query(ctx, `SELECT `+s.rel.Cols+` FROM `+s.from()+where+` ORDER BY `+orderBy, args...)
}

// SelectByID fetches a single row by primary key.
func (s *Store) SelectByID(ctx context.Context, vis Visibility, id uuid.UUID) pgx.Row {
	where, args, idx := s.where(vis, nil)
	query := `SELECT ` + s.rel.Cols + ` FROM ` + s.from() + where +
		fmt.Sprintf(` AND %s.id = $%d`, s.alias(), idx)
	args = append(args, id)
	return s.conn(ctx).QueryRow(ctx, query, args...)
}

// Count returns the number of rows matching the filter.
func (s *Store) Count(ctx context.Context, vis Visibility, f *Filter) (int, error) {
	where, args, _ := s.where(vis, f)
	var total int
	err := s.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM `+s.from()+where, args...).Scan(&total)
	return total, err
}

// Exists reports whether a row with the given id is visible.
func (s *Store) Exists(ctx context.Context, vis Visibility, id uuid.UUID) (bool, error) {
	where, args, idx := s.where(vis, nil)
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s%s AND %s.id = $%d)`, s.from(), where, s.alias(), idx)
	args = append(args, id)
	var ok bool
	err := s.conn(ctx).QueryRow(ctx, query, args...).Scan(&ok)
	return ok, err
}

// UpdateByID applies the set clause to one live row and bumps updated_at.
// It returns pgx.ErrNoRows when the row is missing or soft-deleted.
func (s *Store) UpdateByID(ctx context.Context, id uuid.UUID, set *SetClause) error {
	setSQL, args, idx := set.clause(1)
	query := fmt.Sprintf(`UPDATE %s SET %s, updated_at = now() WHERE id = $%d AND deleted_at IS NULL`,
		s.rel.Table, setSQL, idx)
	args = append(args, id)
	tag, err := s.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SoftDeleteByID marks one live row as deleted. It returns pgx.ErrNoRows
// when the row is missing or already deleted.
func (s *Store) SoftDeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := s.conn(ctx).Exec(ctx,
		`UPDATE `+s.rel.Table+` SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Exec runs a statement on the pool or the enclosing transaction.
func (s *Store) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return s.conn(ctx).Exec(ctx, sql, args...)
}

// Query runs a query on the pool or the enclosing transaction.
func (s *Store) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return s.conn(ctx).Query(ctx, sql, args...)
}

// QueryRow runs a single-row query on the pool or the enclosing transaction.
func (s *Store) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return s.conn(ctx).QueryRow(ctx, sql, args...)
}
