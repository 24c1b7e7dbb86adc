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
	"github.com/fairwaylabs/teesheet-service/pkg/types"
)

// CreateOverride inserts an override shell with no published version.
func (r *Repository) CreateOverride(ctx context.Context, o *domain.Override) (*domain.Override, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("overrides").
		Columns("sheet_id", "name").
		Values(o.SheetID, o.Name).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - execute insert: %v", ErrExecQuery, err)
	}
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time
	return o, nil
}

// CreateOverrideVersion inserts a draft override version with its windows.
// A version with no windows is a valid closed-day revision.
func (r *Repository) CreateOverrideVersion(ctx context.Context, v *domain.OverrideVersion) (*domain.OverrideVersion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("override_versions").
		Columns("override_id", "version_number", "date", "published").
		Values(v.OverrideID, v.VersionNumber, v.Date, false).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverrideVersion - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&v.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateOverrideVersion - execute insert: %v", ErrExecQuery, err)
	}
	v.CreatedAt = createdAt.Time

	for i := range v.Windows {
		v.Windows[i].OverrideVersionID = v.ID
		if err := r.insertOverrideWindow(ctx, executor, &v.Windows[i]); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// GetOverrideVersion fetches an override version with its windows.
func (r *Repository) GetOverrideVersion(ctx context.Context, id int64) (*domain.OverrideVersion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "override_id", "version_number", "date", "published", "created_at",
	).
		From("override_versions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrideVersion - build select query: %v", ErrBuildQuery, err)
	}

	var v domain.OverrideVersion
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID, &v.OverrideID, &v.VersionNumber, &v.Date, &v.Published, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOverrideVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrideVersion - scan version: %v", ErrScanRow, err)
	}
	v.CreatedAt = createdAt.Time

	if v.Windows, err = r.listOverrideWindows(ctx, executor, v.ID); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetPublishedOverrideForDate returns the currently published override
// version for a sheet and date, or ErrOverrideVersionNotFound when the
// date has no published override.
func (r *Repository) GetPublishedOverrideForDate(ctx context.Context, sheetID int64, date time.Time) (*domain.OverrideVersion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	day := date.Format(domain.DateFormat)

	query, args, err := psqlbuilder.Select(
		"ov.id", "ov.override_id", "ov.version_number", "ov.date", "ov.published", "ov.created_at",
	).
		From("override_versions ov").
		Join("overrides o ON o.published_version_id = ov.id").
		Where(squirrel.Eq{"o.sheet_id": sheetID, "ov.date": day}).
		OrderBy("o.id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPublishedOverrideForDate - build select query: %v", ErrBuildQuery, err)
	}

	var v domain.OverrideVersion
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID, &v.OverrideID, &v.VersionNumber, &v.Date, &v.Published, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOverrideVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPublishedOverrideForDate - scan version: %v", ErrScanRow, err)
	}
	v.CreatedAt = createdAt.Time

	if v.Windows, err = r.listOverrideWindows(ctx, executor, v.ID); err != nil {
		return nil, err
	}
	return &v, nil
}

// PublishOverrideVersion marks the version published and swaps the
// override's published pointer.
func (r *Repository) PublishOverrideVersion(ctx context.Context, overrideID, versionID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("override_versions").
		Set("published", true).
		Where(squirrel.Eq{"id": versionID, "override_id": overrideID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: PublishOverrideVersion - build update query: %v", ErrBuildQuery, err)
	}
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: PublishOverrideVersion - execute update: %v", ErrExecQuery, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrOverrideVersionNotFound
	}

	query, args, err = psqlbuilder.Update("overrides").
		Set("published_version_id", versionID).
		Where(squirrel.Eq{"id": overrideID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: PublishOverrideVersion - build pointer update: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: PublishOverrideVersion - execute pointer update: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) insertOverrideWindow(ctx context.Context, executor DBExecutor, w *domain.OverrideWindow) error {
	query, args, err := psqlbuilder.Insert("override_windows").
		Columns(
			"override_version_id",
			"position",
			"side_id",
			"template_version_id",
			"start_mode",
			"start_clock",
			"start_offset_mins",
			"end_mode",
			"end_clock",
			"end_offset_mins",
			"start_slots_enabled",
		).
		Values(
			w.OverrideVersionID,
			w.Position,
			w.SideID,
			w.TemplateVersionID,
			w.StartMode,
			w.StartClock,
			w.StartOffsetMins,
			w.EndMode,
			w.EndClock,
			w.EndOffsetMins,
			w.StartSlotsEnabled,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertOverrideWindow - build insert query: %v", ErrBuildQuery, err)
	}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&w.ID); err != nil {
		return fmt.Errorf("%w: insertOverrideWindow - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) listOverrideWindows(ctx context.Context, executor DBExecutor, versionID int64) ([]domain.OverrideWindow, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"override_version_id",
		"position",
		"side_id",
		"template_version_id",
		"start_mode",
		"start_clock",
		"start_offset_mins",
		"end_mode",
		"end_clock",
		"end_offset_mins",
		"start_slots_enabled",
	).
		From("override_windows").
		Where(squirrel.Eq{"override_version_id": versionID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listOverrideWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listOverrideWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]domain.OverrideWindow, 0)
	for rows.Next() {
		var w domain.OverrideWindow
		var sideID sql.NullInt64
		var startClock, endClock sql.NullString
		var startOffset, endOffset sql.NullInt64

		if err := rows.Scan(
			&w.ID,
			&w.OverrideVersionID,
			&w.Position,
			&sideID,
			&w.TemplateVersionID,
			&w.StartMode,
			&startClock,
			&startOffset,
			&w.EndMode,
			&endClock,
			&endOffset,
			&w.StartSlotsEnabled,
		); err != nil {
			return nil, fmt.Errorf("%w: listOverrideWindows - scan row: %v", ErrScanRow, err)
		}

		if sideID.Valid {
			w.SideID = &sideID.Int64
		}
		if startClock.Valid {
			ts := types.TimeString(startClock.String)
			w.StartClock = &ts
		}
		if endClock.Valid {
			ts := types.TimeString(endClock.String)
			w.EndClock = &ts
		}
		if startOffset.Valid {
			mins := int(startOffset.Int64)
			w.StartOffsetMins = &mins
		}
		if endOffset.Valid {
			mins := int(endOffset.Int64)
			w.EndOffsetMins = &mins
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listOverrideWindows - rows error: %v", ErrScanRow, err)
	}
	return windows, nil
}
