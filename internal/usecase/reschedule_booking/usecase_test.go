package reschedule_booking_test

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
	"github.com/fairwaylabs/teesheet-service/internal/usecase/reschedule_booking"
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
	byID map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) UpdateLegTeeTime(_ context.Context, legID, teeTimeID, sideID int64, startTime time.Time) error {
	for _, b := range f.byID {
		for i := range b.Legs {
			if b.Legs[i].ID == legID {
				b.Legs[i].TeeTimeID = teeTimeID
				b.Legs[i].SideID = sideID
				b.Legs[i].StartTime = startTime
				return nil
			}
		}
	}
	return bookingRepo.ErrLegNotFound
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

func (f *fakeTeeTimeRepo) GetByKey(_ context.Context, sheetID, sideID int64, startTime time.Time) (*domain.TeeTime, error) {
	for _, t := range f.slots {
		if t.SheetID == sheetID && t.SideID == sideID && t.StartTime.Equal(startTime) {
			return t, nil
		}
	}
	return nil, teetimeRepo.ErrTeeTimeNotFound
}

func (f *fakeTeeTimeRepo) TryAssign(_ context.Context, id int64, partySize int) error {
	t, ok := f.slots[id]
	if !ok {
		return teetimeRepo.ErrTeeTimeNotFound
	}
	if t.IsBlocked || t.Remaining() < partySize {
		return teetimeRepo.ErrCapacityExceeded
	}
	t.AssignedCount += partySize
	return nil
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
	sides map[int64]*domain.Side
}

func (f *fakeSheetRepo) GetByID(_ context.Context, id int64) (*domain.Sheet, error) {
	if f.sheet == nil || f.sheet.ID != id {
		return nil, sheetRepo.ErrSheetNotFound
	}
	return f.sheet, nil
}

func (f *fakeSheetRepo) GetSide(_ context.Context, _, sideID int64) (*domain.Side, error) {
	side, ok := f.sides[sideID]
	if !ok {
		return nil, sheetRepo.ErrSideNotFound
	}
	return side, nil
}

var testLoc, _ = time.LoadLocation("America/New_York")

type fixture struct {
	bookings *fakeBookingRepo
	teeTimes *fakeTeeTimeRepo
	versions map[int64]*domain.TemplateVersion
	uc       *reschedule_booking.UseCase
}

// newFixture wires booking 7 (owner 42, two players) on slot 10 at
// 07:00, with an open destination slot 20 at 09:00 on the same side.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		bookings: &fakeBookingRepo{byID: map[int64]*domain.Booking{}},
		teeTimes: &fakeTeeTimeRepo{slots: map[int64]*domain.TeeTime{}},
		versions: map[int64]*domain.TemplateVersion{
			5: {
				ID:              5,
				MinPlayers:      1,
				MaxStartingLegs: 2,
				DefaultCapacity: 4,
				Sides:           []domain.TemplateVersionSide{{SideID: 2, StartSlotsEnabled: true}},
				AccessRules: []domain.AccessRule{
					{SideID: 2, ClassCode: domain.ClassFull, Allowed: true, MaxDaysInAdvance: 7},
				},
			},
		},
	}

	addSlot := func(id int64, start time.Time, assigned int) {
		f.teeTimes.slots[id] = &domain.TeeTime{
			ID:                id,
			SheetID:           1,
			SideID:            2,
			StartTime:         start,
			Capacity:          4,
			AssignedCount:     assigned,
			TemplateVersionID: 5,
		}
	}
	addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 2)
	addSlot(20, time.Date(2026, 7, 6, 9, 0, 0, 0, testLoc), 0)

	f.bookings.byID[7] = &domain.Booking{
		ID:        7,
		SheetID:   1,
		OwnerID:   42,
		ClassCode: domain.ClassFull,
		Status:    domain.BookingActive,
		Legs: []domain.RoundLeg{{
			ID:        70,
			BookingID: 7,
			LegIndex:  0,
			TeeTimeID: 10,
			SideID:    2,
			StartTime: time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc),
			Assignments: []domain.SlotAssignment{
				{ID: 700, PlayerName: "Alice"},
				{ID: 701, PlayerName: "Bob"},
			},
		}},
	}

	side := &domain.Side{
		ID:             2,
		SheetID:        1,
		ValidFrom:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		HoleCount:      9,
		MinutesPerHole: 10,
	}
	sheets := &fakeSheetRepo{
		sheet: &domain.Sheet{ID: 1, Timezone: "America/New_York"},
		sides: map[int64]*domain.Side{2: side},
	}

	f.uc = reschedule_booking.NewUseCase(f.bookings, f.teeTimes, &fakeScheduleRepo{versions: f.versions}, sheets, passthroughTx{}, noopLogger{})
	f.uc.SetTimeProvider(fixedClock{now: time.Date(2026, 7, 5, 12, 0, 0, 0, testLoc)})
	return f
}

func request() *reschedule_booking.Request {
	return &reschedule_booking.Request{
		BookingID:    7,
		ActorID:      42,
		Role:         domain.RoleCustomer,
		NewTeeTimeID: 20,
	}
}

func TestExecute_MovesLegAndCapacity(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	require.Len(t, resp.Legs, 1)
	assert.Equal(t, int64(20), resp.Legs[0].TeeTimeID)
	assert.Equal(t, 0, f.teeTimes.slots[10].AssignedCount)
	assert.Equal(t, 2, f.teeTimes.slots[20].AssignedCount)
}

func TestExecute_DestinationFullKeepsOrigin(t *testing.T) {
	f := newFixture(t)
	f.teeTimes.slots[20].AssignedCount = 3

	_, err := f.uc.Execute(context.Background(), request())
	assert.ErrorIs(t, err, reschedule_booking.ErrCapacityExceeded)
	assert.Equal(t, 2, f.teeTimes.slots[10].AssignedCount)
	assert.Equal(t, int64(10), f.bookings.byID[7].Legs[0].TeeTimeID)
}

func TestExecute_RecomputesReroundPairing(t *testing.T) {
	f := newFixture(t)
	// Second leg currently at 08:30; after moving the first leg to 09:00
	// the reround must land on 10:30.
	f.teeTimes.slots[11] = &domain.TeeTime{
		ID: 11, SheetID: 1, SideID: 2, Capacity: 4, AssignedCount: 2,
		StartTime: time.Date(2026, 7, 6, 8, 30, 0, 0, testLoc), TemplateVersionID: 5,
	}
	f.teeTimes.slots[21] = &domain.TeeTime{
		ID: 21, SheetID: 1, SideID: 2, Capacity: 4,
		StartTime: time.Date(2026, 7, 6, 10, 30, 0, 0, testLoc), TemplateVersionID: 5,
	}
	booking := f.bookings.byID[7]
	booking.Legs = append(booking.Legs, domain.RoundLeg{
		ID:        71,
		BookingID: 7,
		LegIndex:  1,
		TeeTimeID: 11,
		SideID:    2,
		StartTime: time.Date(2026, 7, 6, 8, 30, 0, 0, testLoc),
		Assignments: []domain.SlotAssignment{
			{ID: 702, PlayerName: "Alice"},
			{ID: 703, PlayerName: "Bob"},
		},
	})

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	require.Len(t, resp.Legs, 2)
	assert.Equal(t, int64(20), resp.Legs[0].TeeTimeID)
	assert.Equal(t, int64(21), resp.Legs[1].TeeTimeID)
	assert.Equal(t, 0, f.teeTimes.slots[10].AssignedCount)
	assert.Equal(t, 0, f.teeTimes.slots[11].AssignedCount)
	assert.Equal(t, 2, f.teeTimes.slots[20].AssignedCount)
	assert.Equal(t, 2, f.teeTimes.slots[21].AssignedCount)
}

func TestExecute_MoveOntoOwnFullSlotClaimsNothing(t *testing.T) {
	f := newFixture(t)
	// Two other players fill the booking's own slot; moving onto it
	// must not demand extra seats.
	f.teeTimes.slots[10].AssignedCount = 4

	req := request()
	req.NewTeeTimeID = 10

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.Legs[0].TeeTimeID)
	assert.Equal(t, 4, f.teeTimes.slots[10].AssignedCount)
}

func TestExecute_ShiftOntoOwnSecondLegSlot(t *testing.T) {
	f := newFixture(t)
	// Second leg sits on a full 08:30 slot; shifting the whole booking
	// one slot later reuses those seats and claims only the new 10:00
	// reround.
	f.teeTimes.slots[11] = &domain.TeeTime{
		ID: 11, SheetID: 1, SideID: 2, Capacity: 4, AssignedCount: 4,
		StartTime: time.Date(2026, 7, 6, 8, 30, 0, 0, testLoc), TemplateVersionID: 5,
	}
	f.teeTimes.slots[22] = &domain.TeeTime{
		ID: 22, SheetID: 1, SideID: 2, Capacity: 4,
		StartTime: time.Date(2026, 7, 6, 10, 0, 0, 0, testLoc), TemplateVersionID: 5,
	}
	booking := f.bookings.byID[7]
	booking.Legs = append(booking.Legs, domain.RoundLeg{
		ID: 71, BookingID: 7, LegIndex: 1, TeeTimeID: 11, SideID: 2,
		StartTime:   time.Date(2026, 7, 6, 8, 30, 0, 0, testLoc),
		Assignments: []domain.SlotAssignment{{ID: 702, PlayerName: "Alice"}, {ID: 703, PlayerName: "Bob"}},
	})

	req := request()
	req.NewTeeTimeID = 11

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(11), resp.Legs[0].TeeTimeID)
	assert.Equal(t, int64(22), resp.Legs[1].TeeTimeID)
	assert.Equal(t, 0, f.teeTimes.slots[10].AssignedCount)
	assert.Equal(t, 4, f.teeTimes.slots[11].AssignedCount)
	assert.Equal(t, 2, f.teeTimes.slots[22].AssignedCount)
}

func TestExecute_ReroundMissingAtDestination(t *testing.T) {
	f := newFixture(t)
	booking := f.bookings.byID[7]
	f.teeTimes.slots[11] = &domain.TeeTime{
		ID: 11, SheetID: 1, SideID: 2, Capacity: 4, AssignedCount: 2,
		StartTime: time.Date(2026, 7, 6, 8, 30, 0, 0, testLoc), TemplateVersionID: 5,
	}
	booking.Legs = append(booking.Legs, domain.RoundLeg{
		ID: 71, BookingID: 7, LegIndex: 1, TeeTimeID: 11, SideID: 2,
		StartTime:   time.Date(2026, 7, 6, 8, 30, 0, 0, testLoc),
		Assignments: []domain.SlotAssignment{{ID: 702, PlayerName: "Alice"}, {ID: 703, PlayerName: "Bob"}},
	})

	_, err := f.uc.Execute(context.Background(), request())
	assert.ErrorIs(t, err, reschedule_booking.ErrReroundUnavailable)
}

func TestExecute_StrangerDenied(t *testing.T) {
	f := newFixture(t)

	req := request()
	req.ActorID = 99

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, reschedule_booking.ErrAccessDenied)
}

func TestExecute_StaffMayMoveAnyBooking(t *testing.T) {
	f := newFixture(t)

	req := request()
	req.ActorID = 99
	req.Role = domain.RoleStaff

	_, err := f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_CancelledBookingRefused(t *testing.T) {
	f := newFixture(t)
	f.bookings.byID[7].Status = domain.BookingCancelled

	_, err := f.uc.Execute(context.Background(), request())
	assert.ErrorIs(t, err, reschedule_booking.ErrBookingNotActive)
}

func TestExecute_PastDestinationRefused(t *testing.T) {
	f := newFixture(t)
	f.teeTimes.slots[20].StartTime = time.Date(2026, 7, 5, 6, 0, 0, 0, testLoc)

	_, err := f.uc.Execute(context.Background(), request())
	assert.ErrorIs(t, err, reschedule_booking.ErrWindowHasPassed)
}

func TestExecute_ClassDeniedOnDestination(t *testing.T) {
	f := newFixture(t)
	f.versions[5].AccessRules = []domain.AccessRule{
		{SideID: 2, ClassCode: "member", Allowed: true, MaxDaysInAdvance: 14},
	}

	_, err := f.uc.Execute(context.Background(), request())
	assert.ErrorIs(t, err, reschedule_booking.ErrAccessDenied)
}
