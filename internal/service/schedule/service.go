package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	scheduleRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/schedule"
)

// Service manages versioned configuration. Publishing is a validated
// pointer swap: a version is checked for side coverage, pricing and
// access completeness, reround sanity and window ordering before it can
// become current. Draft creation stays permissive; bad drafts are caught
// at the publish gate.
type Service struct {
	schedules ScheduleRepository
	sheets    SheetRepository
	logger    Logger
}

func NewService(schedules ScheduleRepository, sheets SheetRepository, logger Logger) *Service {
	return &Service{
		schedules: schedules,
		sheets:    sheets,
		logger:    logger,
	}
}

// CreateTemplate creates a template shell.
func (s *Service) CreateTemplate(ctx context.Context, t *domain.Template) (*domain.Template, error) {
	created, err := s.schedules.CreateTemplate(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate: %v", ErrInternal, err)
	}
	s.logger.Info("CreateTemplate: created template=%d for sheet=%d", created.ID, created.SheetID)
	return created, nil
}

// CreateTemplateVersion creates a draft version.
func (s *Service) CreateTemplateVersion(ctx context.Context, v *domain.TemplateVersion) (*domain.TemplateVersion, error) {
	created, err := s.schedules.CreateTemplateVersion(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplateVersion: %v", ErrInternal, err)
	}
	return created, nil
}

// GetTemplateVersion fetches a version with its rules.
func (s *Service) GetTemplateVersion(ctx context.Context, id int64) (*domain.TemplateVersion, error) {
	version, err := s.schedules.GetTemplateVersion(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrTemplateVersionNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("%w: GetTemplateVersion: %v", ErrInternal, err)
	}
	return version, nil
}

// PublishTemplateVersion validates and publishes a template version.
func (s *Service) PublishTemplateVersion(ctx context.Context, templateID, versionID int64) error {
	version, err := s.schedules.GetTemplateVersion(ctx, versionID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrTemplateVersionNotFound) {
			return ErrVersionNotFound
		}
		return fmt.Errorf("%w: PublishTemplateVersion - get version: %v", ErrInternal, err)
	}
	if version.TemplateID != templateID {
		return ErrVersionNotFound
	}

	if err := s.validateTemplateVersion(version); err != nil {
		s.logger.Warn("PublishTemplateVersion: template=%d version=%d rejected: %v", templateID, versionID, err)
		return err
	}

	if err := s.schedules.PublishTemplateVersion(ctx, templateID, versionID); err != nil {
		return fmt.Errorf("%w: PublishTemplateVersion - publish: %v", ErrInternal, err)
	}
	s.logger.Info("PublishTemplateVersion: template=%d now serves version=%d", templateID, versionID)
	return nil
}

// DeleteTemplateVersion removes a draft version. Published or referenced
// versions are refused.
func (s *Service) DeleteTemplateVersion(ctx context.Context, id int64) error {
	err := s.schedules.DeleteTemplateVersion(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, scheduleRepo.ErrTemplateVersionNotFound):
		return ErrVersionNotFound
	case errors.Is(err, scheduleRepo.ErrVersionPublished), errors.Is(err, scheduleRepo.ErrVersionReferenced):
		return ErrVersionPublished
	default:
		return fmt.Errorf("%w: DeleteTemplateVersion: %v", ErrInternal, err)
	}
}

// CreateSeason creates a season shell.
func (s *Service) CreateSeason(ctx context.Context, season *domain.Season) (*domain.Season, error) {
	created, err := s.schedules.CreateSeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSeason: %v", ErrInternal, err)
	}
	return created, nil
}

// CreateSeasonVersion creates a draft season version.
func (s *Service) CreateSeasonVersion(ctx context.Context, v *domain.SeasonVersion) (*domain.SeasonVersion, error) {
	created, err := s.schedules.CreateSeasonVersion(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSeasonVersion: %v", ErrInternal, err)
	}
	return created, nil
}

// PublishSeasonVersion validates and publishes a season version.
func (s *Service) PublishSeasonVersion(ctx context.Context, seasonID, versionID int64) error {
	version, err := s.schedules.GetSeasonVersion(ctx, versionID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSeasonVersionNotFound) {
			return ErrVersionNotFound
		}
		return fmt.Errorf("%w: PublishSeasonVersion - get version: %v", ErrInternal, err)
	}
	if version.SeasonID != seasonID {
		return ErrVersionNotFound
	}

	if err := s.validateSeasonVersion(ctx, version); err != nil {
		s.logger.Warn("PublishSeasonVersion: season=%d version=%d rejected: %v", seasonID, versionID, err)
		return err
	}

	if err := s.schedules.PublishSeasonVersion(ctx, seasonID, versionID); err != nil {
		return fmt.Errorf("%w: PublishSeasonVersion - publish: %v", ErrInternal, err)
	}
	s.logger.Info("PublishSeasonVersion: season=%d now serves version=%d", seasonID, versionID)
	return nil
}

// CreateOverride creates an override shell.
func (s *Service) CreateOverride(ctx context.Context, o *domain.Override) (*domain.Override, error) {
	created, err := s.schedules.CreateOverride(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride: %v", ErrInternal, err)
	}
	return created, nil
}

// CreateOverrideVersion creates a draft override version. A version with
// zero windows is a legitimate closed-day revision.
func (s *Service) CreateOverrideVersion(ctx context.Context, v *domain.OverrideVersion) (*domain.OverrideVersion, error) {
	created, err := s.schedules.CreateOverrideVersion(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverrideVersion: %v", ErrInternal, err)
	}
	return created, nil
}

// PublishOverrideVersion validates and publishes an override version.
func (s *Service) PublishOverrideVersion(ctx context.Context, overrideID, versionID int64) error {
	version, err := s.schedules.GetOverrideVersion(ctx, versionID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrOverrideVersionNotFound) {
			return ErrVersionNotFound
		}
		return fmt.Errorf("%w: PublishOverrideVersion - get version: %v", ErrInternal, err)
	}
	if version.OverrideID != overrideID {
		return ErrVersionNotFound
	}

	if err := s.validateOverrideVersion(ctx, version); err != nil {
		s.logger.Warn("PublishOverrideVersion: override=%d version=%d rejected: %v", overrideID, versionID, err)
		return err
	}

	if err := s.schedules.PublishOverrideVersion(ctx, overrideID, versionID); err != nil {
		return fmt.Errorf("%w: PublishOverrideVersion - publish: %v", ErrInternal, err)
	}
	s.logger.Info("PublishOverrideVersion: override=%d now serves version=%d", overrideID, versionID)
	return nil
}

// CreateClosure records an ad-hoc blackout.
func (s *Service) CreateClosure(ctx context.Context, c *domain.ClosureBlock) (*domain.ClosureBlock, error) {
	if !c.EndsAt.After(c.StartsAt) {
		return nil, fmt.Errorf("%w: closure range is empty", ErrConfigurationInvalid)
	}
	created, err := s.schedules.CreateClosure(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateClosure: %v", ErrInternal, err)
	}
	s.logger.Info("CreateClosure: sheet=%d closure=%d [%s, %s)", created.SheetID, created.ID,
		created.StartsAt.Format(time.RFC3339), created.EndsAt.Format(time.RFC3339))
	return created, nil
}

// DeleteClosure removes a blackout. Slots it blocked are reopened on the
// next generation pass.
func (s *Service) DeleteClosure(ctx context.Context, id int64) error {
	if err := s.schedules.DeleteClosure(ctx, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrClosureNotFound) {
			return ErrVersionNotFound
		}
		return fmt.Errorf("%w: DeleteClosure: %v", ErrInternal, err)
	}
	return nil
}

// validateTemplateVersion checks the publish gate for templates: at
// least one side mapping, access and pricing coverage per mapped side,
// and sane reround targets.
func (s *Service) validateTemplateVersion(version *domain.TemplateVersion) error {
	if len(version.Sides) == 0 {
		return fmt.Errorf("%w: version=%d maps no sides", ErrConfigurationInvalid, version.ID)
	}

	mapped := make(map[int64]*domain.TemplateVersionSide, len(version.Sides))
	for i := range version.Sides {
		mapping := &version.Sides[i]
		if _, dup := mapped[mapping.SideID]; dup {
			return fmt.Errorf("%w: version=%d maps side=%d twice", ErrConfigurationInvalid, version.ID, mapping.SideID)
		}
		mapped[mapping.SideID] = mapping
	}

	for sideID := range mapped {
		if version.AccessRuleFor(sideID, domain.ClassFull) == nil {
			return fmt.Errorf("%w: version=%d side=%d has no access rule", ErrConfigurationInvalid, version.ID, sideID)
		}
		if version.PricingFor(sideID, domain.ClassFull) == nil {
			return fmt.Errorf("%w: version=%d side=%d has no pricing", ErrConfigurationInvalid, version.ID, sideID)
		}
	}

	return validateReroundTargets(version.ID, mapped)
}

// validateReroundTargets rejects targets pointing outside the version's
// side mappings and multi-side reround cycles. A side rerounding onto
// itself is the normal same-loop case and always allowed.
func validateReroundTargets(versionID int64, mapped map[int64]*domain.TemplateVersionSide) error {
	for sideID, mapping := range mapped {
		if mapping.ReroundTargetSideID == nil {
			continue
		}
		target := *mapping.ReroundTargetSideID
		if _, ok := mapped[target]; !ok {
			return fmt.Errorf("%w: version=%d side=%d rerounds onto unmapped side=%d",
				ErrConfigurationInvalid, versionID, sideID, target)
		}
		if target == sideID {
			continue
		}
		// Walk the target chain; revisiting any side means a cycle.
		seen := map[int64]bool{sideID: true}
		current := target
		for {
			if seen[current] {
				return fmt.Errorf("%w: version=%d reround cycle through side=%d",
					ErrConfigurationInvalid, versionID, current)
			}
			seen[current] = true
			next := mapped[current].ReroundTargetSideID
			if next == nil || *next == current {
				break
			}
			current = *next
		}
	}
	return nil
}

// validateSeasonVersion checks the publish gate for seasons: a
// non-empty date range, published template versions behind every window,
// and contiguous per-weekday positions.
func (s *Service) validateSeasonVersion(ctx context.Context, version *domain.SeasonVersion) error {
	if !version.EndDateExclusive.After(version.StartDate) {
		return fmt.Errorf("%w: season version=%d has an empty date range", ErrConfigurationInvalid, version.ID)
	}

	byWeekday := make(map[int][]int)
	for _, w := range version.Windows {
		weekday := domain.NormalizeWeekday(w.Weekday)
		if weekday < 0 || weekday > 6 {
			return fmt.Errorf("%w: season version=%d window weekday=%d out of range", ErrConfigurationInvalid, version.ID, w.Weekday)
		}
		byWeekday[weekday] = append(byWeekday[weekday], w.Position)
		if err := s.checkPublishedTemplateVersion(ctx, w.TemplateVersionID); err != nil {
			return err
		}
	}
	for weekday, positions := range byWeekday {
		if err := checkContiguousPositions(positions); err != nil {
			return fmt.Errorf("%w: season version=%d weekday=%d: %v", ErrConfigurationInvalid, version.ID, weekday, err)
		}
	}
	return nil
}

// validateOverrideVersion checks the publish gate for overrides:
// published template versions and contiguous positions. Zero windows is
// an explicit closed day and passes.
func (s *Service) validateOverrideVersion(ctx context.Context, version *domain.OverrideVersion) error {
	positions := make([]int, 0, len(version.Windows))
	for _, w := range version.Windows {
		positions = append(positions, w.Position)
		if err := s.checkPublishedTemplateVersion(ctx, w.TemplateVersionID); err != nil {
			return err
		}
	}
	if err := checkContiguousPositions(positions); err != nil {
		return fmt.Errorf("%w: override version=%d: %v", ErrConfigurationInvalid, version.ID, err)
	}
	return nil
}

func (s *Service) checkPublishedTemplateVersion(ctx context.Context, versionID int64) error {
	version, err := s.schedules.GetTemplateVersion(ctx, versionID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrTemplateVersionNotFound) {
			return fmt.Errorf("%w: references missing template version=%d", ErrConfigurationInvalid, versionID)
		}
		return fmt.Errorf("%w: checkPublishedTemplateVersion: %v", ErrInternal, err)
	}
	if !version.Published {
		return fmt.Errorf("%w: references unpublished template version=%d", ErrConfigurationInvalid, versionID)
	}
	return nil
}

// checkContiguousPositions enforces unique positions contiguous from
// zero.
func checkContiguousPositions(positions []int) error {
	if len(positions) == 0 {
		return nil
	}
	sorted := make([]int, len(positions))
	copy(sorted, positions)
	sort.Ints(sorted)
	for i, p := range sorted {
		if p != i {
			return fmt.Errorf("positions must be contiguous from zero, got %v", positions)
		}
	}
	return nil
}
