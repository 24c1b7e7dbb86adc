package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	"github.com/fairwaylabs/teesheet-service/pkg/dbmetrics"
	"github.com/fairwaylabs/teesheet-service/pkg/psqlbuilder"
)

// Postgres unique_violation.
const uniqueViolationCode = "23505"

// Repository persists bookings with their round legs and seat
// assignments. Writes that touch capacity run inside the serializable
// transaction the usecase opens; the executor is resolved from the
// context so the same methods work in and out of a transaction.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts the booking with all its legs and assignments. A unique
// index on (sheet_id, idempotency_key) turns concurrent replays into
// ErrDuplicateKey so the caller can re-read the winner's booking.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"sheet_id",
			"owner_id",
			"class_code",
			"status",
			"source",
			"idempotency_key",
			"total_price_cents",
		).
		Values(
			b.SheetID,
			b.OwnerID,
			b.ClassCode,
			b.Status,
			b.Source,
			b.IdempotencyKey,
			b.TotalPriceCents,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	for i := range b.Legs {
		b.Legs[i].BookingID = b.ID
		if err := r.insertLeg(ctx, executor, &b.Legs[i]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// GetByID fetches a booking with its legs and assignments.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByIdempotencyKey fetches the booking created under the given key on
// a sheet, for replayed create requests.
func (r *Repository) GetByIdempotencyKey(ctx context.Context, sheetID int64, key string) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"sheet_id": sheetID, "idempotency_key": key}, "GetByIdempotencyKey")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, op string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := bookingSelect().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var b domain.Booking
	var createdAt, updatedAt sql.NullTime
	var cancellationReason sql.NullString
	var cancelledAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.SheetID,
		&b.OwnerID,
		&b.ClassCode,
		&b.Status,
		&b.Source,
		&b.IdempotencyKey,
		&b.TotalPriceCents,
		&cancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	if cancellationReason.Valid {
		b.CancellationReason = &cancellationReason.String
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	if b.Legs, err = r.listLegs(ctx, executor, b.ID); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByOwner returns the owner's bookings, optionally filtered by
// status, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := bookingSelect().
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC")
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime
		var cancellationReason sql.NullString
		var cancelledAt sql.NullTime

		if err := rows.Scan(
			&b.ID,
			&b.SheetID,
			&b.OwnerID,
			&b.ClassCode,
			&b.Status,
			&b.Source,
			&b.IdempotencyKey,
			&b.TotalPriceCents,
			&cancellationReason,
			&cancelledAt,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByOwner - scan row: %v", ErrScanRow, err)
		}

		if cancellationReason.Valid {
			b.CancellationReason = &cancellationReason.String
		}
		if cancelledAt.Valid {
			b.CancelledAt = &cancelledAt.Time
		}
		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - rows error: %v", ErrScanRow, err)
	}

	for _, b := range bookings {
		if b.Legs, err = r.listLegs(ctx, executor, b.ID); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

// Cancel marks the booking cancelled with a reason. Capacity release is
// the caller's responsibility inside the same transaction.
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.BookingCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.BookingActive}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// UpdateLegTeeTime moves a leg and its assignments onto another tee
// time, for reschedules. Capacity moves are the caller's responsibility
// inside the same transaction.
func (r *Repository) UpdateLegTeeTime(ctx context.Context, legID, teeTimeID, sideID int64, startTime time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("round_legs").
		Set("tee_time_id", teeTimeID).
		Set("side_id", sideID).
		Set("start_time", startTime).
		Where(squirrel.Eq{"id": legID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateLegTeeTime - build update query: %v", ErrBuildQuery, err)
	}
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateLegTeeTime - execute update: %v", ErrExecQuery, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrLegNotFound
	}

	query, args, err = psqlbuilder.Update("slot_assignments").
		Set("tee_time_id", teeTimeID).
		Where(squirrel.Eq{"round_leg_id": legID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateLegTeeTime - build assignments update: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateLegTeeTime - execute assignments update: %v", ErrExecQuery, err)
	}
	return nil
}

// RemoveAssignments drops the given seat assignments from a leg when the
// party shrinks. Capacity release is the caller's responsibility.
func (r *Repository) RemoveAssignments(ctx context.Context, legID int64, assignmentIDs []int64) error {
	if len(assignmentIDs) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_assignments").
		Where(squirrel.Eq{"round_leg_id": legID, "id": assignmentIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RemoveAssignments - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RemoveAssignments - execute delete: %v", ErrExecQuery, err)
	}
	return nil
}

// insertLeg inserts one round leg with its assignments.
func (r *Repository) insertLeg(ctx context.Context, executor DBExecutor, leg *domain.RoundLeg) error {
	query, args, err := psqlbuilder.Insert("round_legs").
		Columns("booking_id", "leg_index", "tee_time_id", "side_id", "start_time", "riding", "price_cents").
		Values(leg.BookingID, leg.LegIndex, leg.TeeTimeID, leg.SideID, leg.StartTime, leg.Riding, leg.PriceCents).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertLeg - build insert query: %v", ErrBuildQuery, err)
	}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&leg.ID); err != nil {
		return fmt.Errorf("%w: insertLeg - execute insert: %v", ErrExecQuery, err)
	}

	for i := range leg.Assignments {
		leg.Assignments[i].RoundLegID = leg.ID
		leg.Assignments[i].TeeTimeID = leg.TeeTimeID
		if err := r.insertAssignment(ctx, executor, &leg.Assignments[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) insertAssignment(ctx context.Context, executor DBExecutor, a *domain.SlotAssignment) error {
	query, args, err := psqlbuilder.Insert("slot_assignments").
		Columns("round_leg_id", "tee_time_id", "player_name").
		Values(a.RoundLegID, a.TeeTimeID, a.PlayerName).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertAssignment - build insert query: %v", ErrBuildQuery, err)
	}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return fmt.Errorf("%w: insertAssignment - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) listLegs(ctx context.Context, executor DBExecutor, bookingID int64) ([]domain.RoundLeg, error) {
	query, args, err := psqlbuilder.Select(
		"id", "booking_id", "leg_index", "tee_time_id", "side_id", "start_time", "riding", "price_cents",
	).
		From("round_legs").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("leg_index ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listLegs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listLegs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	legs := make([]domain.RoundLeg, 0)
	for rows.Next() {
		var leg domain.RoundLeg
		if err := rows.Scan(
			&leg.ID, &leg.BookingID, &leg.LegIndex, &leg.TeeTimeID, &leg.SideID, &leg.StartTime, &leg.Riding, &leg.PriceCents,
		); err != nil {
			return nil, fmt.Errorf("%w: listLegs - scan row: %v", ErrScanRow, err)
		}
		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listLegs - rows error: %v", ErrScanRow, err)
	}

	for i := range legs {
		if legs[i].Assignments, err = r.listAssignments(ctx, executor, legs[i].ID); err != nil {
			return nil, err
		}
	}
	return legs, nil
}

func (r *Repository) listAssignments(ctx context.Context, executor DBExecutor, legID int64) ([]domain.SlotAssignment, error) {
	query, args, err := psqlbuilder.Select("id", "round_leg_id", "tee_time_id", "player_name").
		From("slot_assignments").
		Where(squirrel.Eq{"round_leg_id": legID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listAssignments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listAssignments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	assignments := make([]domain.SlotAssignment, 0)
	for rows.Next() {
		var a domain.SlotAssignment
		if err := rows.Scan(&a.ID, &a.RoundLegID, &a.TeeTimeID, &a.PlayerName); err != nil {
			return nil, fmt.Errorf("%w: listAssignments - scan row: %v", ErrScanRow, err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listAssignments - rows error: %v", ErrScanRow, err)
	}
	return assignments, nil
}

func bookingSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"sheet_id",
		"owner_id",
		"class_code",
		"status",
		"source",
		"idempotency_key",
		"total_price_cents",
		"cancellation_reason",
		"cancelled_at",
		"created_at",
		"updated_at",
	).From("bookings")
}
