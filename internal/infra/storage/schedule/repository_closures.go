package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	"github.com/fairwaylabs/teesheet-service/pkg/dbmetrics"
	"github.com/fairwaylabs/teesheet-service/pkg/psqlbuilder"
)

// CreateClosure inserts a closure block.
func (r *Repository) CreateClosure(ctx context.Context, c *domain.ClosureBlock) (*domain.ClosureBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("closure_blocks").
		Columns("sheet_id", "side_id", "starts_at", "ends_at", "reason").
		Values(c.SheetID, c.SideID, c.StartsAt, c.EndsAt, c.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateClosure - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateClosure - execute insert: %v", ErrExecQuery, err)
	}
	c.CreatedAt = createdAt.Time
	return c, nil
}

// DeleteClosure removes a closure block. Slot regeneration clears the
// blocks the closure put in place.
func (r *Repository) DeleteClosure(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("closure_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - build delete query: %v", ErrBuildQuery, err)
	}
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - execute delete: %v", ErrExecQuery, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrClosureNotFound
	}
	return nil
}

// ListClosuresOverlapping returns the sheet's closure blocks whose
// [starts_at, ends_at) interval overlaps [from, to).
func (r *Repository) ListClosuresOverlapping(ctx context.Context, sheetID int64, from, to time.Time) ([]*domain.ClosureBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "sheet_id", "side_id", "starts_at", "ends_at", "reason", "created_at",
	).
		From("closure_blocks").
		Where(squirrel.Eq{"sheet_id": sheetID}).
		Where(squirrel.Lt{"starts_at": to}).
		Where(squirrel.Gt{"ends_at": from}).
		OrderBy("starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListClosuresOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListClosuresOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	closures := make([]*domain.ClosureBlock, 0)
	for rows.Next() {
		var c domain.ClosureBlock
		var sideID sql.NullInt64
		var createdAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.SheetID, &sideID, &c.StartsAt, &c.EndsAt, &c.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListClosuresOverlapping - scan row: %v", ErrScanRow, err)
		}
		if sideID.Valid {
			c.SideID = &sideID.Int64
		}
		c.CreatedAt = createdAt.Time
		closures = append(closures, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListClosuresOverlapping - rows error: %v", ErrScanRow, err)
	}
	return closures, nil
}
