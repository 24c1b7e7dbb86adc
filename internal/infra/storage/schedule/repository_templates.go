package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	"github.com/fairwaylabs/teesheet-service/pkg/dbmetrics"
	"github.com/fairwaylabs/teesheet-service/pkg/psqlbuilder"
	"github.com/fairwaylabs/teesheet-service/pkg/types"
)

// CreateTemplate inserts a template shell with no published version.
func (r *Repository) CreateTemplate(ctx context.Context, t *domain.Template) (*domain.Template, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("templates").
		Columns("sheet_id", "name").
		Values(t.SheetID, t.Name).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - execute insert: %v", ErrExecQuery, err)
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return t, nil
}

// GetTemplate fetches one template.
func (r *Repository) GetTemplate(ctx context.Context, id int64) (*domain.Template, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "sheet_id", "name", "published_version_id", "created_at", "updated_at",
	).
		From("templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplate - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Template
	var publishedVersionID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID, &t.SheetID, &t.Name, &publishedVersionID, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplate - scan template: %v", ErrScanRow, err)
	}

	if publishedVersionID.Valid {
		t.PublishedVersionID = &publishedVersionID.Int64
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}

// CreateTemplateVersion inserts a draft version with its side mappings,
// access rules and pricing rules. Callers needing atomicity run it inside
// a transaction manager closure.
func (r *Repository) CreateTemplateVersion(ctx context.Context, v *domain.TemplateVersion) (*domain.TemplateVersion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("template_versions").
		Columns(
			"template_id",
			"version_number",
			"slot_interval_mins",
			"min_players",
			"max_starting_legs",
			"walk_ride_mode",
			"default_capacity",
			"published",
		).
		Values(
			v.TemplateID,
			v.VersionNumber,
			v.SlotIntervalMins,
			v.MinPlayers,
			v.MaxStartingLegs,
			v.WalkRideMode,
			v.DefaultCapacity,
			false,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplateVersion - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&v.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateTemplateVersion - execute insert: %v", ErrExecQuery, err)
	}
	v.CreatedAt = createdAt.Time

	for i := range v.Sides {
		v.Sides[i].TemplateVersionID = v.ID
		if err := r.insertVersionSide(ctx, executor, &v.Sides[i]); err != nil {
			return nil, err
		}
	}
	for i := range v.AccessRules {
		v.AccessRules[i].TemplateVersionID = v.ID
		if err := r.insertAccessRule(ctx, executor, &v.AccessRules[i]); err != nil {
			return nil, err
		}
	}
	for i := range v.Pricing {
		v.Pricing[i].TemplateVersionID = v.ID
		if err := r.insertPricingRule(ctx, executor, &v.Pricing[i]); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// GetTemplateVersion fetches a version with its side mappings, access
// rules and pricing rules.
func (r *Repository) GetTemplateVersion(ctx context.Context, id int64) (*domain.TemplateVersion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"template_id",
		"version_number",
		"slot_interval_mins",
		"min_players",
		"max_starting_legs",
		"walk_ride_mode",
		"default_capacity",
		"published",
		"created_at",
	).
		From("template_versions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateVersion - build select query: %v", ErrBuildQuery, err)
	}

	var v domain.TemplateVersion
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID,
		&v.TemplateID,
		&v.VersionNumber,
		&v.SlotIntervalMins,
		&v.MinPlayers,
		&v.MaxStartingLegs,
		&v.WalkRideMode,
		&v.DefaultCapacity,
		&v.Published,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateVersion - scan version: %v", ErrScanRow, err)
	}
	v.CreatedAt = createdAt.Time

	if v.Sides, err = r.listVersionSides(ctx, executor, v.ID); err != nil {
		return nil, err
	}
	if v.AccessRules, err = r.listAccessRules(ctx, executor, v.ID); err != nil {
		return nil, err
	}
	if v.Pricing, err = r.listPricingRules(ctx, executor, v.ID); err != nil {
		return nil, err
	}

	return &v, nil
}

// PublishTemplateVersion marks the version published and swaps the
// template's published pointer in one statement pair. Validation happens
// in the service layer before this is called.
func (r *Repository) PublishTemplateVersion(ctx context.Context, templateID, versionID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("template_versions").
		Set("published", true).
		Where(squirrel.Eq{"id": versionID, "template_id": templateID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: PublishTemplateVersion - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: PublishTemplateVersion - execute update: %v", ErrExecQuery, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrTemplateVersionNotFound
	}

	query, args, err = psqlbuilder.Update("templates").
		Set("published_version_id", versionID).
		Where(squirrel.Eq{"id": templateID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: PublishTemplateVersion - build pointer update: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: PublishTemplateVersion - execute pointer update: %v", ErrExecQuery, err)
	}
	return nil
}

// DeleteTemplateVersion removes a draft version. Published or referenced
// versions are refused.
func (r *Repository) DeleteTemplateVersion(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	version, err := r.GetTemplateVersion(ctx, id)
	if err != nil {
		return err
	}
	if version.Published {
		return ErrVersionPublished
	}

	refs, err := r.countWindowReferences(ctx, executor, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrVersionReferenced
	}

	query, args, err := psqlbuilder.Delete("template_versions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteTemplateVersion - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteTemplateVersion - execute delete: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) insertVersionSide(ctx context.Context, executor DBExecutor, s *domain.TemplateVersionSide) error {
	query, args, err := psqlbuilder.Insert("template_version_sides").
		Columns("template_version_id", "side_id", "reround_target_side_id", "start_slots_enabled").
		Values(s.TemplateVersionID, s.SideID, s.ReroundTargetSideID, s.StartSlotsEnabled).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertVersionSide - build insert query: %v", ErrBuildQuery, err)
	}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		return fmt.Errorf("%w: insertVersionSide - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) insertAccessRule(ctx context.Context, executor DBExecutor, a *domain.AccessRule) error {
	query, args, err := psqlbuilder.Insert("template_version_access_rules").
		Columns("template_version_id", "side_id", "class_code", "allowed", "max_days_in_advance", "release_time").
		Values(a.TemplateVersionID, a.SideID, a.ClassCode, a.Allowed, a.MaxDaysInAdvance, a.ReleaseTime).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertAccessRule - build insert query: %v", ErrBuildQuery, err)
	}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return fmt.Errorf("%w: insertAccessRule - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) insertPricingRule(ctx context.Context, executor DBExecutor, p *domain.PricingRule) error {
	query, args, err := psqlbuilder.Insert("template_version_pricing").
		Columns("template_version_id", "side_id", "class_code", "greens_fee_cents", "cart_fee_cents").
		Values(p.TemplateVersionID, p.SideID, p.ClassCode, p.GreensFeeCents, p.CartFeeCents).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertPricingRule - build insert query: %v", ErrBuildQuery, err)
	}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return fmt.Errorf("%w: insertPricingRule - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) listVersionSides(ctx context.Context, executor DBExecutor, versionID int64) ([]domain.TemplateVersionSide, error) {
	query, args, err := psqlbuilder.Select(
		"id", "template_version_id", "side_id", "reround_target_side_id", "start_slots_enabled",
	).
		From("template_version_sides").
		Where(squirrel.Eq{"template_version_id": versionID}).
		OrderBy("side_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listVersionSides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listVersionSides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sides := make([]domain.TemplateVersionSide, 0)
	for rows.Next() {
		var s domain.TemplateVersionSide
		var target sql.NullInt64
		if err := rows.Scan(&s.ID, &s.TemplateVersionID, &s.SideID, &target, &s.StartSlotsEnabled); err != nil {
			return nil, fmt.Errorf("%w: listVersionSides - scan row: %v", ErrScanRow, err)
		}
		if target.Valid {
			s.ReroundTargetSideID = &target.Int64
		}
		sides = append(sides, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listVersionSides - rows error: %v", ErrScanRow, err)
	}
	return sides, nil
}

func (r *Repository) listAccessRules(ctx context.Context, executor DBExecutor, versionID int64) ([]domain.AccessRule, error) {
	query, args, err := psqlbuilder.Select(
		"id", "template_version_id", "side_id", "class_code", "allowed", "max_days_in_advance", "release_time",
	).
		From("template_version_access_rules").
		Where(squirrel.Eq{"template_version_id": versionID}).
		OrderBy("side_id ASC, class_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listAccessRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listAccessRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]domain.AccessRule, 0)
	for rows.Next() {
		var a domain.AccessRule
		var release sql.NullString
		if err := rows.Scan(&a.ID, &a.TemplateVersionID, &a.SideID, &a.ClassCode, &a.Allowed, &a.MaxDaysInAdvance, &release); err != nil {
			return nil, fmt.Errorf("%w: listAccessRules - scan row: %v", ErrScanRow, err)
		}
		if release.Valid {
			ts := types.TimeString(release.String)
			a.ReleaseTime = &ts
		}
		rules = append(rules, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listAccessRules - rows error: %v", ErrScanRow, err)
	}
	return rules, nil
}

func (r *Repository) listPricingRules(ctx context.Context, executor DBExecutor, versionID int64) ([]domain.PricingRule, error) {
	query, args, err := psqlbuilder.Select(
		"id", "template_version_id", "side_id", "class_code", "greens_fee_cents", "cart_fee_cents",
	).
		From("template_version_pricing").
		Where(squirrel.Eq{"template_version_id": versionID}).
		OrderBy("side_id ASC, class_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listPricingRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listPricingRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]domain.PricingRule, 0)
	for rows.Next() {
		var p domain.PricingRule
		if err := rows.Scan(&p.ID, &p.TemplateVersionID, &p.SideID, &p.ClassCode, &p.GreensFeeCents, &p.CartFeeCents); err != nil {
			return nil, fmt.Errorf("%w: listPricingRules - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listPricingRules - rows error: %v", ErrScanRow, err)
	}
	return rules, nil
}

// countWindowReferences counts weekday and override windows still
// pointing at the template version.
func (r *Repository) countWindowReferences(ctx context.Context, executor DBExecutor, versionID int64) (int64, error) {
	var total int64
	for _, table := range []string{"weekday_windows", "override_windows"} {
		query, args, err := psqlbuilder.Select("COUNT(*)").
			From(table).
			Where(squirrel.Eq{"template_version_id": versionID}).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("%w: countWindowReferences - build count query: %v", ErrBuildQuery, err)
		}
		var count int64
		if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
			return 0, fmt.Errorf("%w: countWindowReferences - scan count: %v", ErrScanRow, err)
		}
		total += count
	}
	return total, nil
}
