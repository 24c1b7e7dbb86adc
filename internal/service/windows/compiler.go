package windows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	scheduleRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/schedule"
	sheetRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/sheet"
	"github.com/fairwaylabs/teesheet-service/pkg/types"
)

// clockLayouts are the accepted wall-clock forms, tried in order.
var clockLayouts = []string{"15:04:05", "15:04", "3:04 PM", "3:04PM"}

// Compile converts resolved windows into concrete, day-clamped local
// time ranges per side for the target date. Windows that cannot be
// resolved are skipped rather than failing the whole date, and windows
// whose clamped range collapses are silently dropped.
func (s *Service) Compile(ctx context.Context, sheetID int64, date time.Time, resolved []domain.ResolvedWindow) ([]domain.CompiledWindow, error) {
	sheet, err := s.sheets.GetByID(ctx, sheetID)
	if err != nil {
		if errors.Is(err, sheetRepo.ErrSheetNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("%w: Compile - get sheet: %v", ErrInternal, err)
	}
	loc, err := sheet.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: Compile - load timezone: %v", ErrInternal, err)
	}

	localDate := date.In(loc)
	dayStart := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	sunrise, sunset := s.sunTimes(dayStart, sheet, loc)

	sides, err := s.sheets.ListSides(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("%w: Compile - list sides: %v", ErrInternal, err)
	}
	sidesByID := make(map[int64]*domain.Side, len(sides))
	activeSides := make([]*domain.Side, 0, len(sides))
	for _, side := range sides {
		sidesByID[side.ID] = side
		if side.ActiveOn(dayStart) {
			activeSides = append(activeSides, side)
		}
	}

	compiled := make([]domain.CompiledWindow, 0, len(resolved))
	for _, window := range resolved {
		version, err := s.schedules.GetTemplateVersion(ctx, window.TemplateVersionID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrTemplateVersionNotFound) {
				s.logger.Warn("Compile: sheet=%d skipping window position=%d: template version=%d not found",
					sheetID, window.Position, window.TemplateVersionID)
				continue
			}
			return nil, fmt.Errorf("%w: Compile - get template version: %v", ErrInternal, err)
		}

		start, err := s.resolveEdge(window.StartMode, window.StartClock, window.StartOffsetMins, dayStart, sunrise, loc)
		if err != nil {
			s.logger.Warn("Compile: sheet=%d skipping window position=%d: bad start: %v", sheetID, window.Position, err)
			continue
		}
		end, err := s.resolveEdge(window.EndMode, window.EndClock, window.EndOffsetMins, dayStart, sunset, loc)
		if err != nil {
			s.logger.Warn("Compile: sheet=%d skipping window position=%d: bad end: %v", sheetID, window.Position, err)
			continue
		}

		// Clamp to the target calendar day and snap the start to the minute.
		if start.Before(dayStart) {
			start = dayStart
		}
		if !end.Before(dayEnd) {
			end = dayEnd
		}
		start = start.Truncate(time.Minute)

		// A window whose clamped range collapses auto-closes.
		if !end.After(start) {
			continue
		}

		for _, target := range s.fanOut(window, version, sidesByID, activeSides, sheetID) {
			interval := slotInterval(version, target.side)
			compiled = append(compiled, domain.CompiledWindow{
				SideID:            target.side.ID,
				TemplateVersionID: version.ID,
				Start:             start,
				End:               end,
				IntervalMins:      interval,
				StartSlotsEnabled: target.startSlotsEnabled,
			})
		}
	}

	domain.SortCompiledWindows(compiled)
	return compiled, nil
}

type fanOutTarget struct {
	side              *domain.Side
	startSlotsEnabled bool
}

// fanOut expands a window to its concrete sides: an explicit side stays
// as-is, a side-less window covers every side mapped in the template
// version, and a version with no mappings falls back to every active
// side on the sheet.
func (s *Service) fanOut(window domain.ResolvedWindow, version *domain.TemplateVersion, sidesByID map[int64]*domain.Side, activeSides []*domain.Side, sheetID int64) []fanOutTarget {
	if window.SideID != nil {
		side, ok := sidesByID[*window.SideID]
		if !ok {
			s.logger.Warn("Compile: sheet=%d window position=%d references unknown side=%d", sheetID, window.Position, *window.SideID)
			return nil
		}
		enabled := window.StartSlotsEnabled
		if mapping := version.SideMapping(side.ID); mapping != nil {
			enabled = enabled && mapping.StartSlotsEnabled
		}
		return []fanOutTarget{{side: side, startSlotsEnabled: enabled}}
	}

	if len(version.Sides) > 0 {
		targets := make([]fanOutTarget, 0, len(version.Sides))
		for _, mapping := range version.Sides {
			side, ok := sidesByID[mapping.SideID]
			if !ok {
				continue
			}
			targets = append(targets, fanOutTarget{
				side:              side,
				startSlotsEnabled: window.StartSlotsEnabled && mapping.StartSlotsEnabled,
			})
		}
		return targets
	}

	targets := make([]fanOutTarget, 0, len(activeSides))
	for _, side := range activeSides {
		targets = append(targets, fanOutTarget{side: side, startSlotsEnabled: window.StartSlotsEnabled})
	}
	return targets
}

// resolveEdge computes one concrete edge of a window: a parsed wall
// clock on the target date for fixed mode, or the solar anchor plus a
// signed minute offset for solar mode.
func (s *Service) resolveEdge(mode domain.WindowMode, clock *types.TimeString, offsetMins *int, dayStart, solarAnchor time.Time, loc *time.Location) (time.Time, error) {
	switch mode {
	case domain.WindowFixed:
		if clock == nil || clock.IsZero() {
			return time.Time{}, fmt.Errorf("fixed edge without a clock value")
		}
		parsed, err := parseClock(clock.String())
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(),
			parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc), nil
	case domain.WindowSolarOffset:
		offset := 0
		if offsetMins != nil {
			offset = *offsetMins
		}
		return solarAnchor.Add(time.Duration(offset) * time.Minute), nil
	default:
		return time.Time{}, fmt.Errorf("unknown window mode %q", mode)
	}
}

// sunTimes returns the sheet's sunrise and sunset for the day, falling
// back to fixed defaults when coordinates are absent.
func (s *Service) sunTimes(dayStart time.Time, sheet *domain.Sheet, loc *time.Location) (time.Time, time.Time) {
	if !sheet.HasCoordinates() {
		return defaultSunTimes(dayStart, loc)
	}
	return s.solar.SunTimes(dayStart, *sheet.Latitude, *sheet.Longitude, loc)
}

// slotInterval picks the interval for a compiled window: template
// version first, then the side's own interval, then the global default.
func slotInterval(version *domain.TemplateVersion, side *domain.Side) int {
	if version.SlotIntervalMins > 0 {
		return version.SlotIntervalMins
	}
	if side.SlotIntervalMins > 0 {
		return side.SlotIntervalMins
	}
	return domain.DefaultSlotIntervalMins
}

// parseClock parses a wall-clock string, tolerating seconds and 12-hour
// forms.
func parseClock(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range clockLayouts {
		candidate := trimmed
		if strings.Contains(layout, "PM") {
			candidate = strings.ToUpper(trimmed)
		}
		if parsed, err := time.Parse(layout, candidate); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable clock value %q", value)
}
