package bookings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	bookingRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/booking"
	sheetRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/sheet"
	teetimeRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/teetime"
	"github.com/fairwaylabs/teesheet-service/internal/service/bookings"
	"github.com/fairwaylabs/teesheet-service/pkg/ptr"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type fakeBookingRepo struct {
	byID    map[int64]*domain.Booking
	removed map[int64][]int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: map[int64]*domain.Booking{}, removed: map[int64][]int64{}}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) ListByOwner(_ context.Context, ownerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.byID {
		if b.OwnerID != ownerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b, ok := f.byID[id]
	if !ok || !b.IsActive() {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.BookingCancelled
	b.CancellationReason = &reason
	b.CancelledAt = ptr.Ptr(time.Now())
	return nil
}

func (f *fakeBookingRepo) RemoveAssignments(_ context.Context, legID int64, assignmentIDs []int64) error {
	f.removed[legID] = append(f.removed[legID], assignmentIDs...)
	for _, b := range f.byID {
		for li := range b.Legs {
			if b.Legs[li].ID != legID {
				continue
			}
			kept := b.Legs[li].Assignments[:0]
			for _, a := range b.Legs[li].Assignments {
				drop := false
				for _, id := range assignmentIDs {
					if a.ID == id {
						drop = true
					}
				}
				if !drop {
					kept = append(kept, a)
				}
			}
			b.Legs[li].Assignments = kept
		}
	}
	return nil
}

type fakeTeeTimeRepo struct {
	slots map[int64]*domain.TeeTime
}

func (f *fakeTeeTimeRepo) GetByID(_ context.Context, id int64) (*domain.TeeTime, error) {
	t, ok := f.slots[id]
	if !ok {
		return nil, teetimeRepo.ErrTeeTimeNotFound
	}
	return t, nil
}

func (f *fakeTeeTimeRepo) Release(_ context.Context, id int64, partySize int) error {
	t, ok := f.slots[id]
	if !ok {
		return teetimeRepo.ErrTeeTimeNotFound
	}
	t.AssignedCount -= partySize
	if t.AssignedCount < 0 {
		t.AssignedCount = 0
	}
	return nil
}

type fakeScheduleRepo struct {
	versions map[int64]*domain.TemplateVersion
}

func (f *fakeScheduleRepo) GetTemplateVersion(_ context.Context, id int64) (*domain.TemplateVersion, error) {
	return f.versions[id], nil
}

type fakeSheetRepo struct {
	sheet *domain.Sheet
}

func (f *fakeSheetRepo) GetByID(_ context.Context, id int64) (*domain.Sheet, error) {
	if f.sheet == nil || f.sheet.ID != id {
		return nil, sheetRepo.ErrSheetNotFound
	}
	return f.sheet, nil
}

var testLoc, _ = time.LoadLocation("America/New_York")

type fixture struct {
	bookings *fakeBookingRepo
	teeTimes *fakeTeeTimeRepo
	svc      *bookings.Service
}

// newFixture wires booking 7: owner 42, two players on a single leg
// teeing off 2026-07-06 07:00 local, with a 24 hour cutoff.
func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	teeOff := time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc)
	f := &fixture{
		bookings: newFakeBookingRepo(),
		teeTimes: &fakeTeeTimeRepo{slots: map[int64]*domain.TeeTime{
			10: {ID: 10, SheetID: 1, SideID: 2, StartTime: teeOff, Capacity: 4, AssignedCount: 2, TemplateVersionID: 5},
		}},
	}
	f.bookings.byID[7] = &domain.Booking{
		ID:        7,
		SheetID:   1,
		OwnerID:   42,
		ClassCode: domain.ClassFull,
		Status:    domain.BookingActive,
		Source:    domain.SourceDirect,
		Legs: []domain.RoundLeg{{
			ID:        70,
			BookingID: 7,
			LegIndex:  0,
			TeeTimeID: 10,
			SideID:    2,
			StartTime: teeOff,
			Assignments: []domain.SlotAssignment{
				{ID: 700, RoundLegID: 70, TeeTimeID: 10, PlayerName: "Alice"},
				{ID: 701, RoundLegID: 70, TeeTimeID: 10, PlayerName: "Bob"},
			},
		}},
	}

	schedules := &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
		5: {ID: 5, MinPlayers: 1, DefaultCapacity: 4},
	}}
	sheets := &fakeSheetRepo{sheet: &domain.Sheet{ID: 1, Timezone: "America/New_York", CancelCutoffHours: 24}}

	f.svc = bookings.NewService(f.bookings, f.teeTimes, schedules, sheets, passthroughTx{}, 24, noopLogger{})
	f.svc.SetTimeProvider(fixedClock{now: now})
	return f
}

func TestGetByID_OwnerAndStaffAllowed(t *testing.T) {
	f := newFixture(t, time.Date(2026, 7, 1, 12, 0, 0, 0, testLoc))

	resp, err := f.svc.GetByID(context.Background(), 7, 42, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)

	_, err = f.svc.GetByID(context.Background(), 7, 99, domain.RoleStaff)
	assert.NoError(t, err)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	f := newFixture(t, time.Date(2026, 7, 1, 12, 0, 0, 0, testLoc))

	_, err := f.svc.GetByID(context.Background(), 7, 99, domain.RoleCustomer)
	assert.ErrorIs(t, err, bookings.ErrAccessDenied)
}

func TestCancel_OutsideCutoffReleasesCapacity(t *testing.T) {
	// Five days before tee-off, comfortably outside the 24 hour cutoff.
	f := newFixture(t, time.Date(2026, 7, 1, 12, 0, 0, 0, testLoc))

	resp, err := f.svc.Cancel(context.Background(), 7, 42, domain.RoleCustomer, "change of plans")
	require.NoError(t, err)

	assert.Equal(t, string(domain.BookingCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "change of plans", *resp.CancellationReason)
	assert.Equal(t, 0, f.teeTimes.slots[10].AssignedCount)
}

func TestCancel_CustomerInsideCutoffRejected(t *testing.T) {
	// Twelve hours before tee-off, inside the 24 hour cutoff.
	f := newFixture(t, time.Date(2026, 7, 5, 19, 0, 0, 0, testLoc))

	_, err := f.svc.Cancel(context.Background(), 7, 42, domain.RoleCustomer, "")
	assert.ErrorIs(t, err, bookings.ErrWindowHasPassed)
	assert.Equal(t, 2, f.teeTimes.slots[10].AssignedCount)
}

func TestCancel_StaffOverridesCutoff(t *testing.T) {
	f := newFixture(t, time.Date(2026, 7, 5, 19, 0, 0, 0, testLoc))

	resp, err := f.svc.Cancel(context.Background(), 7, 99, domain.RoleStaff, "course closed")
	require.NoError(t, err)

	assert.Equal(t, string(domain.BookingCancelled), resp.Status)
	assert.Equal(t, 0, f.teeTimes.slots[10].AssignedCount)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture(t, time.Date(2026, 7, 1, 12, 0, 0, 0, testLoc))
	f.bookings.byID[7].Status = domain.BookingCancelled

	_, err := f.svc.Cancel(context.Background(), 7, 42, domain.RoleCustomer, "")
	assert.ErrorIs(t, err, bookings.ErrAlreadyCancelled)
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture(t, time.Date(2026, 7, 1, 12, 0, 0, 0, testLoc))

	_, err := f.svc.Cancel(context.Background(), 999, 42, domain.RoleCustomer, "")
	assert.ErrorIs(t, err, bookings.ErrBookingNotFound)
}

func TestRemovePlayers_ReleasesSeats(t *testing.T) {
	f := newFixture(t, time.Date(2026, 7, 1, 12, 0, 0, 0, testLoc))

	resp, err := f.svc.RemovePlayers(context.Background(), 7, 42, domain.RoleCustomer, []string{"Bob"})
	require.NoError(t, err)

	require.Len(t, resp.Legs, 1)
	assert.Equal(t, []string{"Alice"}, resp.Legs[0].Players)
	assert.Equal(t, 1, f.teeTimes.slots[10].AssignedCount)
	assert.Equal(t, []int64{701}, f.bookings.removed[70])
}

func TestRemovePlayers_BelowMinimumRejected(t *testing.T) {
	f := newFixture(t, time.Date(2026, 7, 1, 12, 0, 0, 0, testLoc))

	_, err := f.svc.RemovePlayers(context.Background(), 7, 42, domain.RoleCustomer, []string{"Alice", "Bob"})
	assert.ErrorIs(t, err, bookings.ErrMinimumPlayersNotMet)
	assert.Equal(t, 2, f.teeTimes.slots[10].AssignedCount)
}

func TestRemovePlayers_UnknownPlayer(t *testing.T) {
	f := newFixture(t, time.Date(2026, 7, 1, 12, 0, 0, 0, testLoc))

	_, err := f.svc.RemovePlayers(context.Background(), 7, 42, domain.RoleCustomer, []string{"Mallory"})
	assert.ErrorIs(t, err, bookings.ErrInvalidInput)
}

func TestListByOwner_FiltersByStatus(t *testing.T) {
	f := newFixture(t, time.Date(2026, 7, 1, 12, 0, 0, 0, testLoc))
	f.bookings.byID[8] = &domain.Booking{ID: 8, SheetID: 1, OwnerID: 42, Status: domain.BookingCancelled}

	all, err := f.svc.ListByOwner(context.Background(), 42, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active := domain.BookingActive
	onlyActive, err := f.svc.ListByOwner(context.Background(), 42, &active)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, int64(7), onlyActive[0].ID)
}
