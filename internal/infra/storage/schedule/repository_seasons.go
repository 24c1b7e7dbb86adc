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

// CreateSeason inserts a season shell with no published version.
func (r *Repository) CreateSeason(ctx context.Context, s *domain.Season) (*domain.Season, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("seasons").
		Columns("sheet_id", "name").
		Values(s.SheetID, s.Name).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSeason - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateSeason - execute insert: %v", ErrExecQuery, err)
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return s, nil
}

// CreateSeasonVersion inserts a draft season version with its weekday
// windows.
func (r *Repository) CreateSeasonVersion(ctx context.Context, v *domain.SeasonVersion) (*domain.SeasonVersion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("season_versions").
		Columns("season_id", "version_number", "start_date", "end_date_exclusive", "published").
		Values(v.SeasonID, v.VersionNumber, v.StartDate, v.EndDateExclusive, false).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSeasonVersion - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&v.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateSeasonVersion - execute insert: %v", ErrExecQuery, err)
	}
	v.CreatedAt = createdAt.Time

	for i := range v.Windows {
		v.Windows[i].SeasonVersionID = v.ID
		if err := r.insertWeekdayWindow(ctx, executor, &v.Windows[i]); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// GetSeasonVersion fetches a season version with its windows.
func (r *Repository) GetSeasonVersion(ctx context.Context, id int64) (*domain.SeasonVersion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "season_id", "version_number", "start_date", "end_date_exclusive", "published", "created_at",
	).
		From("season_versions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSeasonVersion - build select query: %v", ErrBuildQuery, err)
	}

	var v domain.SeasonVersion
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID, &v.SeasonID, &v.VersionNumber, &v.StartDate, &v.EndDateExclusive, &v.Published, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSeasonVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSeasonVersion - scan version: %v", ErrScanRow, err)
	}
	v.CreatedAt = createdAt.Time

	if v.Windows, err = r.listWeekdayWindows(ctx, executor, v.ID); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListPublishedSeasonVersionsForDate returns the currently published
// season versions of a sheet whose range contains the date, ordered by
// start date then season id so resolution picks the first deterministic
// match.
func (r *Repository) ListPublishedSeasonVersionsForDate(ctx context.Context, sheetID int64, date time.Time) ([]*domain.SeasonVersion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	day := date.Format(domain.DateFormat)

	query, args, err := psqlbuilder.Select(
		"sv.id", "sv.season_id", "sv.version_number", "sv.start_date", "sv.end_date_exclusive", "sv.published", "sv.created_at",
	).
		From("season_versions sv").
		Join("seasons s ON s.published_version_id = sv.id").
		Where(squirrel.Eq{"s.sheet_id": sheetID}).
		Where(squirrel.LtOrEq{"sv.start_date": day}).
		Where(squirrel.Gt{"sv.end_date_exclusive": day}).
		OrderBy("sv.start_date ASC", "s.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPublishedSeasonVersionsForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPublishedSeasonVersionsForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	versions := make([]*domain.SeasonVersion, 0)
	for rows.Next() {
		var v domain.SeasonVersion
		var createdAt sql.NullTime
		if err := rows.Scan(&v.ID, &v.SeasonID, &v.VersionNumber, &v.StartDate, &v.EndDateExclusive, &v.Published, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListPublishedSeasonVersionsForDate - scan row: %v", ErrScanRow, err)
		}
		v.CreatedAt = createdAt.Time
		versions = append(versions, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPublishedSeasonVersionsForDate - rows error: %v", ErrScanRow, err)
	}

	for _, v := range versions {
		if v.Windows, err = r.listWeekdayWindows(ctx, executor, v.ID); err != nil {
			return nil, err
		}
	}
	return versions, nil
}

// PublishSeasonVersion marks the version published and swaps the season's
// published pointer. Validation happens in the service layer.
func (r *Repository) PublishSeasonVersion(ctx context.Context, seasonID, versionID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("season_versions").
		Set("published", true).
		Where(squirrel.Eq{"id": versionID, "season_id": seasonID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: PublishSeasonVersion - build update query: %v", ErrBuildQuery, err)
	}
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: PublishSeasonVersion - execute update: %v", ErrExecQuery, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrSeasonVersionNotFound
	}

	query, args, err = psqlbuilder.Update("seasons").
		Set("published_version_id", versionID).
		Where(squirrel.Eq{"id": seasonID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: PublishSeasonVersion - build pointer update: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: PublishSeasonVersion - execute pointer update: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) insertWeekdayWindow(ctx context.Context, executor DBExecutor, w *domain.WeekdayWindow) error {
	query, args, err := psqlbuilder.Insert("weekday_windows").
		Columns(
			"season_version_id",
			"weekday",
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
			w.SeasonVersionID,
			w.Weekday,
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
		return fmt.Errorf("%w: insertWeekdayWindow - build insert query: %v", ErrBuildQuery, err)
	}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&w.ID); err != nil {
		return fmt.Errorf("%w: insertWeekdayWindow - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) listWeekdayWindows(ctx context.Context, executor DBExecutor, versionID int64) ([]domain.WeekdayWindow, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"season_version_id",
		"weekday",
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
		From("weekday_windows").
		Where(squirrel.Eq{"season_version_id": versionID}).
		OrderBy("weekday ASC, position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listWeekdayWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listWeekdayWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]domain.WeekdayWindow, 0)
	for rows.Next() {
		var w domain.WeekdayWindow
		var sideID sql.NullInt64
		var startClock, endClock sql.NullString
		var startOffset, endOffset sql.NullInt64

		if err := rows.Scan(
			&w.ID,
			&w.SeasonVersionID,
			&w.Weekday,
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
			return nil, fmt.Errorf("%w: listWeekdayWindows - scan row: %v", ErrScanRow, err)
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
		return nil, fmt.Errorf("%w: listWeekdayWindows - rows error: %v", ErrScanRow, err)
	}
	return windows, nil
}
