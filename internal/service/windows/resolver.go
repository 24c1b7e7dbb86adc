package windows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	scheduleRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/schedule"
	sheetRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/sheet"
	"github.com/fairwaylabs/teesheet-service/internal/service/windows/models"
)

// Service resolves which published configuration governs a date and
// compiles its abstract windows into concrete local time ranges.
type Service struct {
	sheets    SheetRepository
	schedules ScheduleRepository
	solar     SolarAdapter
	logger    Logger
}

func NewService(sheets SheetRepository, schedules ScheduleRepository, solar SolarAdapter, logger Logger) *Service {
	return &Service{
		sheets:    sheets,
		schedules: schedules,
		solar:     solar,
		logger:    logger,
	}
}

// Resolve picks the configuration layer governing the sheet on the given
// local date. A published override wins outright, even when empty;
// otherwise the first published season version covering the date
// contributes its windows for that weekday; otherwise the day is
// unconfigured.
func (s *Service) Resolve(ctx context.Context, sheetID int64, date time.Time) (*models.ResolveResult, error) {
	sheet, err := s.sheets.GetByID(ctx, sheetID)
	if err != nil {
		if errors.Is(err, sheetRepo.ErrSheetNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("%w: Resolve - get sheet: %v", ErrInternal, err)
	}

	loc, err := sheet.Location()
	if err != nil {
		s.logger.Error("Resolve: sheet=%d has invalid timezone %q: %v", sheetID, sheet.Timezone, err)
		return nil, fmt.Errorf("%w: Resolve - load timezone: %v", ErrInternal, err)
	}
	localDate := date.In(loc)

	override, err := s.schedules.GetPublishedOverrideForDate(ctx, sheetID, localDate)
	if err == nil {
		windows := make([]domain.ResolvedWindow, 0, len(override.Windows))
		for _, w := range override.OrderedWindows() {
			windows = append(windows, w.Resolved())
		}
		s.logger.Info("Resolve: sheet=%d date=%s governed by override version=%d windows=%d",
			sheetID, localDate.Format(domain.DateFormat), override.ID, len(windows))
		return &models.ResolveResult{Source: domain.SourceOverride, Windows: windows}, nil
	}
	if !errors.Is(err, scheduleRepo.ErrOverrideVersionNotFound) {
		return nil, fmt.Errorf("%w: Resolve - get override: %v", ErrInternal, err)
	}

	seasons, err := s.schedules.ListPublishedSeasonVersionsForDate(ctx, sheetID, localDate)
	if err != nil {
		return nil, fmt.Errorf("%w: Resolve - list seasons: %v", ErrInternal, err)
	}
	if len(seasons) == 0 {
		return &models.ResolveResult{Source: domain.SourceNone, Windows: []domain.ResolvedWindow{}}, nil
	}

	// Only the first matching season version applies.
	season := seasons[0]
	weekday := int(localDate.Weekday())
	matched := season.WindowsForWeekday(weekday)
	windows := make([]domain.ResolvedWindow, 0, len(matched))
	for _, w := range matched {
		windows = append(windows, w.Resolved())
	}
	s.logger.Info("Resolve: sheet=%d date=%s governed by season version=%d weekday=%d windows=%d",
		sheetID, localDate.Format(domain.DateFormat), season.ID, weekday, len(windows))
	return &models.ResolveResult{Source: domain.SourceSeason, Windows: windows}, nil
}
