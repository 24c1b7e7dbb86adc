package generate_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	sheetRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/sheet"
	windowsService "github.com/fairwaylabs/teesheet-service/internal/service/windows"
)

// UseCase drives one idempotent generation pass for a (sheet, date)
// pair: resolve the governing configuration, compile its windows, then
// reconcile the stored slot rows against the expected instants one
// window at a time. Each window commits in its own transaction so a
// failure mid-day never holds locks across the whole sheet.
type UseCase struct {
	windows   WindowService
	teeTimes  TeeTimeRepository
	schedules ScheduleRepository
	sheets    SheetRepository
	txManager TransactionManager
	logger    Logger
}

func NewUseCase(
	windows WindowService,
	teeTimes TeeTimeRepository,
	schedules ScheduleRepository,
	sheets SheetRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		windows:   windows,
		teeTimes:  teeTimes,
		schedules: schedules,
		sheets:    sheets,
		txManager: txManager,
		logger:    logger,
	}
}

// Execute runs the generation pass.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	sheet, err := uc.sheets.GetByID(ctx, req.SheetID)
	if err != nil {
		if errors.Is(err, sheetRepo.ErrSheetNotFound) {
			uc.logger.Warn("GenerateSlots: sheet=%d not found", req.SheetID)
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

	resolved, err := uc.windows.Resolve(ctx, req.SheetID, dayStart)
	if err != nil {
		if errors.Is(err, windowsService.ErrSheetNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("%w: failed to resolve windows: %v", ErrInternal, err)
	}

	compiled, err := uc.windows.Compile(ctx, req.SheetID, dayStart, resolved.Windows)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compile windows: %v", ErrInternal, err)
	}

	closures, err := uc.schedules.ListClosuresOverlapping(ctx, req.SheetID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list closures: %v", ErrInternal, err)
	}

	resp := &Response{Source: resolved.Source}
	versions := make(map[int64]*domain.TemplateVersion)

	for _, window := range compiled {
		version, err := uc.templateVersion(ctx, versions, window.TemplateVersionID)
		if err != nil {
			uc.logger.Warn("GenerateSlots: sheet=%d side=%d skipping window at %s: %v",
				req.SheetID, window.SideID, window.Start.Format(time.RFC3339), err)
			continue
		}

		err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			return uc.reconcileWindow(txCtx, req.SheetID, window, version, closures, resp)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to reconcile window: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("GenerateSlots: sheet=%d date=%s source=%s generated=%d retired=%d blocked=%d unblocked=%d",
		req.SheetID, dayStart.Format(domain.DateFormat), resp.Source,
		resp.Generated, resp.Retired, resp.Blocked, resp.Unblocked)
	return resp, nil
}

// reconcileWindow brings one compiled window's slot rows in line with
// the expected instants and the active closures.
func (uc *UseCase) reconcileWindow(
	ctx context.Context,
	sheetID int64,
	window domain.CompiledWindow,
	version *domain.TemplateVersion,
	closures []*domain.ClosureBlock,
	resp *Response,
) error {
	expected := window.SlotStarts()

	// Configuration changes retire unassigned slots whose instant fell
	// out of the expected set. Slots holding assignments stay put.
	retired, err := uc.teeTimes.DeleteUnassignedNotIn(ctx, sheetID, window.SideID, window.Start, window.End, expected)
	if err != nil {
		return err
	}
	resp.Retired += int(retired)

	if !window.StartSlotsEnabled {
		return nil
	}

	existing, err := uc.teeTimes.ListBySideRange(ctx, sheetID, window.SideID, window.Start, window.End)
	if err != nil {
		return err
	}
	existingByStart := make(map[int64]*domain.TeeTime, len(existing))
	for _, t := range existing {
		existingByStart[t.StartTime.Unix()] = t
	}

	capacity := version.DefaultCapacity
	if capacity <= 0 {
		capacity = domain.DefaultCapacity
	}

	for _, instant := range expected {
		closure := coveringClosure(closures, instant, window.SideID)

		current, exists := existingByStart[instant.Unix()]
		if !exists {
			t := &domain.TeeTime{
				SheetID:           sheetID,
				SideID:            window.SideID,
				StartTime:         instant,
				Capacity:          capacity,
				TemplateVersionID: window.TemplateVersionID,
			}
			if closure != nil {
				t.IsBlocked = true
				reason := closure.Reason
				source := domain.BlockSourceClosure
				t.BlockedReason = &reason
				t.BlockSource = &source
			}
			created, err := uc.teeTimes.CreateIfAbsent(ctx, t)
			if err != nil {
				return err
			}
			if created {
				resp.Generated++
				if closure != nil {
					resp.Blocked++
				}
			}
			continue
		}

		// Re-evaluate closures on every pass. Manual blocks are never
		// touched; closure blocks follow the closure's current state.
		switch {
		case closure != nil && !current.IsBlocked:
			if err := uc.teeTimes.SetBlock(ctx, current.ID, closure.Reason, domain.BlockSourceClosure); err != nil {
				return err
			}
			resp.Blocked++
		case closure != nil && current.IsClosureBlocked() && reasonDiffers(current, closure.Reason):
			if err := uc.teeTimes.SetBlock(ctx, current.ID, closure.Reason, domain.BlockSourceClosure); err != nil {
				return err
			}
		case closure == nil && current.IsClosureBlocked():
			if err := uc.teeTimes.ClearBlock(ctx, current.ID, domain.BlockSourceClosure); err != nil {
				return err
			}
			resp.Unblocked++
		}
	}
	return nil
}

func (uc *UseCase) templateVersion(ctx context.Context, cache map[int64]*domain.TemplateVersion, id int64) (*domain.TemplateVersion, error) {
	if version, ok := cache[id]; ok {
		return version, nil
	}
	version, err := uc.schedules.GetTemplateVersion(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = version
	return version, nil
}

// coveringClosure returns the first closure blocking the instant on the
// side, or nil.
func coveringClosure(closures []*domain.ClosureBlock, instant time.Time, sideID int64) *domain.ClosureBlock {
	for _, c := range closures {
		if c.Covers(instant, sideID) {
			return c
		}
	}
	return nil
}

func reasonDiffers(t *domain.TeeTime, reason string) bool {
	return t.BlockedReason == nil || *t.BlockedReason != reason
}
