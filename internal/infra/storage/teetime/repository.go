package teetime

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

// Repository persists tee times. Generation owns the row lifecycle;
// booking owns assigned_count via the conditional assignment queries.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateIfAbsent inserts the tee time unless a row already exists for
// its (sheet, side, start time) key. It reports whether a row was
// inserted; an existing row is left untouched.
func (r *Repository) CreateIfAbsent(ctx context.Context, t *domain.TeeTime) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("tee_times").
		Columns("sheet_id", "side_id", "start_time", "capacity", "assigned_count", "is_blocked", "blocked_reason", "block_source", "template_version_id").
		Values(t.SheetID, t.SideID, t.StartTime, t.Capacity, 0, t.IsBlocked, t.BlockedReason, t.BlockSource, t.TemplateVersionID).
		Suffix("ON CONFLICT (sheet_id, side_id, start_time) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfAbsent - execute insert: %v", ErrExecQuery, err)
	}
	return true, nil
}

// GetByID fetches a tee time by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TeeTime, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByKey fetches a tee time by its natural key.
func (r *Repository) GetByKey(ctx context.Context, sheetID, sideID int64, startTime time.Time) (*domain.TeeTime, error) {
	return r.getOne(ctx, squirrel.Eq{"sheet_id": sheetID, "side_id": sideID, "start_time": startTime}, "GetByKey")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, op string) (*domain.TeeTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := teeTimeSelect().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	t, err := scanTeeTime(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTeeTimeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan tee time: %v", ErrScanRow, op, err)
	}
	return t, nil
}

// ListBySideRange returns the side's tee times with start_time in
// [from, to), ordered by start time.
func (r *Repository) ListBySideRange(ctx context.Context, sheetID, sideID int64, from, to time.Time) ([]*domain.TeeTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := teeTimeSelect().
		Where(squirrel.Eq{"sheet_id": sheetID, "side_id": sideID}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySideRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySideRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	teeTimes := make([]*domain.TeeTime, 0)
	for rows.Next() {
		t, err := scanTeeTime(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBySideRange - scan row: %v", ErrScanRow, err)
		}
		teeTimes = append(teeTimes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBySideRange - rows error: %v", ErrScanRow, err)
	}
	return teeTimes, nil
}

// DeleteUnassignedNotIn removes the side's unassigned tee times in
// [from, to) whose start time is not in the expected set. Slots holding
// assignments are never deleted. Returns the number of rows removed.
func (r *Repository) DeleteUnassignedNotIn(ctx context.Context, sheetID, sideID int64, from, to time.Time, expected []time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Delete("tee_times").
		Where(squirrel.Eq{"sheet_id": sheetID, "side_id": sideID, "assigned_count": 0}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to})
	if len(expected) > 0 {
		builder = builder.Where(squirrel.NotEq{"start_time": expected})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnassignedNotIn - build delete query: %v", ErrBuildQuery, err)
	}
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnassignedNotIn - execute delete: %v", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnassignedNotIn - rows affected: %v", ErrExecQuery, err)
	}
	return affected, nil
}

// SetBlock marks the tee time blocked with a reason and source.
func (r *Repository) SetBlock(ctx context.Context, id int64, reason, source string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tee_times").
		Set("is_blocked", true).
		Set("blocked_reason", reason).
		Set("block_source", source).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetBlock - build update query: %v", ErrBuildQuery, err)
	}
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetBlock - execute update: %v", ErrExecQuery, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrTeeTimeNotFound
	}
	return nil
}

// ClearBlock unblocks the tee time if its current block came from the
// given source. Blocks from other sources are left in place.
func (r *Repository) ClearBlock(ctx context.Context, id int64, source string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tee_times").
		Set("is_blocked", false).
		Set("blocked_reason", nil).
		Set("block_source", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "block_source": source}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ClearBlock - build update query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ClearBlock - execute update: %v", ErrExecQuery, err)
	}
	return nil
}

// TryAssign increments assigned_count by partySize only when the slot is
// unblocked and has the capacity to take the whole party. Zero affected
// rows means the guard failed and the caller gets ErrCapacityExceeded.
func (r *Repository) TryAssign(ctx context.Context, id int64, partySize int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tee_times").
		Set("assigned_count", squirrel.Expr("assigned_count + ?", partySize)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_blocked": false}).
		Where(squirrel.Expr("assigned_count + ? <= capacity", partySize)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TryAssign - build update query: %v", ErrBuildQuery, err)
	}
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TryAssign - execute update: %v", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TryAssign - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrCapacityExceeded
	}
	return nil
}

// Release decrements assigned_count by partySize, clamping at zero.
func (r *Repository) Release(ctx context.Context, id int64, partySize int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tee_times").
		Set("assigned_count", squirrel.Expr("GREATEST(assigned_count - ?, 0)", partySize)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrTeeTimeNotFound
	}
	return nil
}

func teeTimeSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"sheet_id",
		"side_id",
		"start_time",
		"capacity",
		"assigned_count",
		"is_blocked",
		"blocked_reason",
		"block_source",
		"template_version_id",
		"created_at",
		"updated_at",
	).From("tee_times")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeeTime(row rowScanner) (*domain.TeeTime, error) {
	var t domain.TeeTime
	var blockedReason, blockSource sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.SheetID,
		&t.SideID,
		&t.StartTime,
		&t.Capacity,
		&t.AssignedCount,
		&t.IsBlocked,
		&blockedReason,
		&blockSource,
		&t.TemplateVersionID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if blockedReason.Valid {
		t.BlockedReason = &blockedReason.String
	}
	if blockSource.Valid {
		t.BlockSource = &blockSource.String
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}
