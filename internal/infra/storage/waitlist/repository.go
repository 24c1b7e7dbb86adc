package waitlist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	"github.com/fairwaylabs/teesheet-service/pkg/dbmetrics"
	"github.com/fairwaylabs/teesheet-service/pkg/psqlbuilder"
)

// Repository persists waitlist entries. Promotion ordering comes from
// created_at, so selection queries always order ascending.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a waiting entry.
func (r *Repository) Create(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns("sheet_id", "side_id", "tee_time_id", "owner_id", "party_size", "class_code", "status", "riding").
		Values(e.SheetID, e.SideID, e.TeeTimeID, e.OwnerID, e.PartySize, e.ClassCode, e.Status, e.Riding).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time
	return e, nil
}

// GetByID fetches an entry by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := entrySelect().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	e, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan entry: %v", ErrScanRow, err)
	}
	return e, nil
}

// OldestWaitingForTeeTime returns the oldest still-waiting entry against
// a tee time whose party fits in the given free capacity, or
// ErrEntryNotFound when nothing qualifies. The row is locked when called
// inside a transaction so concurrent promotions pick distinct entries.
func (r *Repository) OldestWaitingForTeeTime(ctx context.Context, teeTimeID int64, freeCapacity int) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := entrySelect().
		Where(squirrel.Eq{"tee_time_id": teeTimeID, "status": domain.WaitlistWaiting}).
		Where(squirrel.LtOrEq{"party_size": freeCapacity}).
		OrderBy("created_at ASC, id ASC").
		Limit(1)
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: OldestWaitingForTeeTime - build select query: %v", ErrBuildQuery, err)
	}

	e, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: OldestWaitingForTeeTime - scan entry: %v", ErrScanRow, err)
	}
	return e, nil
}

// ListByTeeTime returns all entries against a tee time, oldest first.
func (r *Repository) ListByTeeTime(ctx context.Context, teeTimeID int64) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := entrySelect().
		Where(squirrel.Eq{"tee_time_id": teeTimeID}).
		OrderBy("created_at ASC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTeeTime - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTeeTime - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTeeTime - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTeeTime - rows error: %v", ErrScanRow, err)
	}
	return entries, nil
}

// UpdateStatus transitions an entry from one status to another. Zero
// affected rows means the entry was not in the expected status, which
// keeps concurrent promotions from double-offering.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.WaitlistStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func entrySelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"sheet_id",
		"side_id",
		"tee_time_id",
		"owner_id",
		"party_size",
		"class_code",
		"status",
		"riding",
		"created_at",
		"updated_at",
	).From("waitlist_entries")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.WaitlistEntry, error) {
	var e domain.WaitlistEntry
	var sideID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&e.ID,
		&e.SheetID,
		&sideID,
		&e.TeeTimeID,
		&e.OwnerID,
		&e.PartySize,
		&e.ClassCode,
		&e.Status,
		&e.Riding,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sideID.Valid {
		e.SideID = &sideID.Int64
	}
	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time
	return &e, nil
}
