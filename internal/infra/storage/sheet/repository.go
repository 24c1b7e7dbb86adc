package sheet

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	"github.com/fairwaylabs/teesheet-service/pkg/dbmetrics"
	"github.com/fairwaylabs/teesheet-service/pkg/psqlbuilder"
)

// Repository reads sheets (facilities) and their sides.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a sheet repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID fetches one sheet.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Sheet, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"latitude",
		"longitude",
		"cancel_cutoff_hours",
		"created_at",
		"updated_at",
	).
		From("sheets").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Sheet
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Name,
		&s.Timezone,
		&s.Latitude,
		&s.Longitude,
		&s.CancelCutoffHours,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSheetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan sheet: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// GetSide fetches one side.
func (r *Repository) GetSide(ctx context.Context, id int64) (*domain.Side, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := sideSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSide - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	side, err := scanSide(row)
	if err == sql.ErrNoRows {
		return nil, ErrSideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSide - scan side: %v", ErrScanRow, err)
	}

	return side, nil
}

// ListSides fetches all sides of a sheet ordered by id.
func (r *Repository) ListSides(ctx context.Context, sheetID int64) ([]*domain.Side, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := sideSelect().
		Where(squirrel.Eq{"sheet_id": sheetID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListSides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sides := make([]*domain.Side, 0)
	for rows.Next() {
		side, err := scanSide(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListSides - scan row: %v", ErrScanRow, err)
		}
		sides = append(sides, side)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSides - rows error: %v", ErrScanRow, err)
	}

	return sides, nil
}

func sideSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"sheet_id",
		"name",
		"valid_from",
		"valid_to",
		"slot_interval_mins",
		"hole_count",
		"minutes_per_hole",
		"created_at",
		"updated_at",
	).From("sides")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSide(row rowScanner) (*domain.Side, error) {
	var side domain.Side
	var validTo sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&side.ID,
		&side.SheetID,
		&side.Name,
		&side.ValidFrom,
		&validTo,
		&side.SlotIntervalMins,
		&side.HoleCount,
		&side.MinutesPerHole,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if validTo.Valid {
		side.ValidTo = &validTo.Time
	}
	side.CreatedAt = createdAt.Time
	side.UpdatedAt = updatedAt.Time

	return &side, nil
}
