package list_tee_times

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	sheetRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/sheet"
)

// UseCase lists the tee times of one sheet on one local date with their
// remaining capacity.
type UseCase struct {
	sheets   SheetRepository
	teeTimes TeeTimeRepository
	logger   Logger
}

func NewUseCase(
	sheets SheetRepository,
	teeTimes TeeTimeRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		sheets:   sheets,
		teeTimes: teeTimes,
		logger:   logger,
	}
}

func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListTeeTimes: validation failed: %v", err)
		return nil, err
	}

	sheet, err := uc.sheets.GetByID(ctx, req.SheetID)
	if err != nil {
		if errors.Is(err, sheetRepo.ErrSheetNotFound) {
			uc.logger.Warn("ListTeeTimes: sheet=%d not found", req.SheetID)
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("%w: failed to get sheet: %v", ErrInternal, err)
	}
	loc, err := sheet.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load timezone: %v", ErrInternal, err)
	}

	localDate := req.Date.In(loc)
	dayStart := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	sides, err := uc.sides(ctx, req, dayStart)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		SheetID: req.SheetID,
		Date:    dayStart,
		Slots:   make([]SlotResponse, 0),
	}

	for _, side := range sides {
		teeTimes, err := uc.teeTimes.ListBySideRange(ctx, req.SheetID, side.ID, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list tee times for side=%d: %v", ErrInternal, side.ID, err)
		}
		for _, t := range teeTimes {
			if req.OnlyAvailable && (t.IsBlocked || t.Remaining() == 0) {
				continue
			}
			resp.Slots = append(resp.Slots, SlotResponse{
				TeeTimeID:     t.ID,
				SideID:        t.SideID,
				StartTime:     t.StartTime.In(loc),
				Capacity:      t.Capacity,
				Assigned:      t.AssignedCount,
				Remaining:     t.Remaining(),
				IsBlocked:     t.IsBlocked,
				BlockedReason: t.BlockedReason,
			})
		}
	}

	uc.logger.Info("ListTeeTimes: sheet=%d date=%s sides=%d slots=%d",
		req.SheetID, dayStart.Format(domain.DateFormat), len(sides), len(resp.Slots))
	return resp, nil
}

// sides returns the sides to list: the requested side when the filter is
// set, otherwise every side effective on the date.
func (uc *UseCase) sides(ctx context.Context, req *Request, date time.Time) ([]*domain.Side, error) {
	all, err := uc.sheets.ListSides(ctx, req.SheetID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list sides: %v", ErrInternal, err)
	}

	active := make([]*domain.Side, 0, len(all))
	for _, side := range all {
		if !side.ActiveOn(date) {
			continue
		}
		if req.SideID != nil && side.ID != *req.SideID {
			continue
		}
		active = append(active, side)
	}

	if req.SideID != nil && len(active) == 0 {
		uc.logger.Warn("ListTeeTimes: side=%d not found on sheet=%d", *req.SideID, req.SheetID)
		return nil, ErrSideNotFound
	}
	return active, nil
}
