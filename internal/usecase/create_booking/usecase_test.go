package create_booking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	bookingRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/booking"
	sheetRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/sheet"
	teetimeRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/teetime"
	"github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
	"github.com/fairwaylabs/teesheet-service/pkg/ptr"
	"github.com/fairwaylabs/teesheet-service/pkg/types"
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
	mu     sync.Mutex
	nextID int64
	byKey  map[string]*domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byKey: make(map[string]*domain.Booking)}
}

func (f *fakeBookingRepo) GetByIdempotencyKey(_ context.Context, sheetID int64, key string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.byKey[key]; ok && b.SheetID == sheetID {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byKey[b.IdempotencyKey]; ok {
		return nil, bookingRepo.ErrDuplicateKey
	}
	f.nextID++
	stored := *b
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.byKey[b.IdempotencyKey] = &stored
	return &stored, nil
}

// fakeTeeTimeRepo guards TryAssign with a mutex so the concurrency test
// below exercises a real race over the last seats.
type fakeTeeTimeRepo struct {
	mu    sync.Mutex
	slots map[int64]*domain.TeeTime
}

func (f *fakeTeeTimeRepo) GetByID(_ context.Context, id int64) (*domain.TeeTime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.slots[id]
	if !ok {
		return nil, teetimeRepo.ErrTeeTimeNotFound
	}
	return t, nil
}

func (f *fakeTeeTimeRepo) GetByKey(_ context.Context, sheetID, sideID int64, startTime time.Time) (*domain.TeeTime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.slots {
		if t.SheetID == sheetID && t.SideID == sideID && t.StartTime.Equal(startTime) {
			return t, nil
		}
	}
	return nil, teetimeRepo.ErrTeeTimeNotFound
}

func (f *fakeTeeTimeRepo) TryAssign(_ context.Context, id int64, partySize int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
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

// fixture wires a one-side facility: side 2 plays 90 minutes, the
// template allows rerounds and prices the full class at 50+20 per player.
type fixture struct {
	bookings  *fakeBookingRepo
	teeTimes  *fakeTeeTimeRepo
	schedules *fakeScheduleRepo
	sheets    *fakeSheetRepo
	uc        *create_booking.UseCase
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	side := &domain.Side{
		ID:             2,
		SheetID:        1,
		Name:           "Front Nine",
		ValidFrom:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		HoleCount:      9,
		MinutesPerHole: 10,
	}
	f := &fixture{
		bookings: newFakeBookingRepo(),
		teeTimes: &fakeTeeTimeRepo{slots: map[int64]*domain.TeeTime{}},
		schedules: &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
			5: {
				ID:              5,
				MinPlayers:      1,
				MaxStartingLegs: 2,
				WalkRideMode:    domain.WalkOrRide,
				DefaultCapacity: 4,
				Sides:           []domain.TemplateVersionSide{{SideID: 2, StartSlotsEnabled: true}},
				AccessRules: []domain.AccessRule{
					{SideID: 2, ClassCode: domain.ClassFull, Allowed: true, MaxDaysInAdvance: 7},
				},
				Pricing: []domain.PricingRule{
					{SideID: 2, ClassCode: domain.ClassFull, GreensFeeCents: 5000, CartFeeCents: 2000},
				},
			},
		}},
		sheets: &fakeSheetRepo{
			sheet: &domain.Sheet{ID: 1, Timezone: "America/New_York", CancelCutoffHours: 24},
			sides: map[int64]*domain.Side{2: side},
		},
		now: time.Date(2026, 7, 5, 12, 0, 0, 0, testLoc),
	}

	f.uc = create_booking.NewUseCase(f.bookings, f.teeTimes, f.schedules, f.sheets, passthroughTx{}, noopLogger{})
	f.uc.SetTimeProvider(fixedClock{now: f.now})
	return f
}

func (f *fixture) addSlot(id int64, start time.Time, capacity int) *domain.TeeTime {
	t := &domain.TeeTime{
		ID:                id,
		SheetID:           1,
		SideID:            2,
		StartTime:         start,
		Capacity:          capacity,
		TemplateVersionID: 5,
	}
	f.teeTimes.slots[id] = t
	return t
}

func baseRequest() *create_booking.Request {
	return &create_booking.Request{
		SheetID:        1,
		OwnerID:        42,
		ClassCode:      domain.ClassFull,
		TeeTimeID:      10,
		Players:        []string{"Alice", "Bob"},
		Riding:         true,
		IdempotencyKey: "key-1",
	}
}

func TestExecute_CreatesSingleLegBooking(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.BookingActive), resp.Status)
	assert.Equal(t, string(domain.SourceDirect), resp.Source)
	// Two riders at 5000 greens + 2000 cart each.
	assert.Equal(t, int64(14000), resp.TotalPriceCents)
	require.Len(t, resp.Legs, 1)
	assert.Equal(t, int64(10), resp.Legs[0].TeeTimeID)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, resp.Legs[0].Players)
	assert.Equal(t, 2, slot.AssignedCount)
}

func TestExecute_WalkersSkipCartFee(t *testing.T) {
	f := newFixture(t)
	f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)

	req := baseRequest()
	req.Riding = false

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), resp.TotalPriceCents)
}

func TestExecute_IdempotentReplay(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)

	first, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	replay, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, first.ID, replay.ID)
	assert.Equal(t, first.TotalPriceCents, replay.TotalPriceCents)
	// The replay must not touch capacity again.
	assert.Equal(t, 2, slot.AssignedCount)
}

func TestExecute_ConcurrentRequestsRaceForLastSeats(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)

	reqA := baseRequest()
	reqA.Players = []string{"A1", "A2", "A3"}
	reqA.IdempotencyKey = "key-a"
	reqB := baseRequest()
	reqB.Players = []string{"B1", "B2", "B3"}
	reqB.IdempotencyKey = "key-b"

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, req := range []*create_booking.Request{reqA, reqB} {
		wg.Add(1)
		go func(i int, req *create_booking.Request) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), req)
		}(i, req)
	}
	wg.Wait()

	// Exactly one party of three fits in a slot of four.
	var failures int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, create_booking.ErrCapacityExceeded)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, 3, slot.AssignedCount)
}

func TestExecute_EighteenHolesPairsReround(t *testing.T) {
	f := newFixture(t)
	first := f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)
	// Side 2 plays 9 holes at 10 minutes each, so the reround tees off at 08:30.
	second := f.addSlot(11, time.Date(2026, 7, 6, 8, 30, 0, 0, testLoc), 4)

	req := baseRequest()
	req.EighteenHoles = true

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Legs, 2)
	assert.Equal(t, int64(10), resp.Legs[0].TeeTimeID)
	assert.Equal(t, int64(11), resp.Legs[1].TeeTimeID)
	assert.Equal(t, int64(28000), resp.TotalPriceCents)
	assert.Equal(t, 2, first.AssignedCount)
	assert.Equal(t, 2, second.AssignedCount)
}

func TestExecute_ReroundSlotMissing(t *testing.T) {
	f := newFixture(t)
	f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)

	req := baseRequest()
	req.EighteenHoles = true

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, create_booking.ErrReroundUnavailable)
}

func TestExecute_ReroundFullFailsWholeBooking(t *testing.T) {
	f := newFixture(t)
	f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)
	second := f.addSlot(11, time.Date(2026, 7, 6, 8, 30, 0, 0, testLoc), 4)
	second.AssignedCount = 3

	req := baseRequest()
	req.EighteenHoles = true

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, create_booking.ErrCapacityExceeded)
	assert.Equal(t, 3, second.AssignedCount)
}

func TestExecute_ReroundsDisallowedByVersion(t *testing.T) {
	f := newFixture(t)
	f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)
	f.schedules.versions[5].MaxStartingLegs = 1

	req := baseRequest()
	req.EighteenHoles = true

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, create_booking.ErrReroundUnavailable)
}

func TestExecute_HorizonNotYetOpen(t *testing.T) {
	f := newFixture(t)
	// Ten days out against a seven-day horizon.
	f.addSlot(10, time.Date(2026, 7, 15, 7, 0, 0, 0, testLoc), 4)

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, create_booking.ErrWindowNotOpen)
}

func TestExecute_ReleaseClockOnHorizonDay(t *testing.T) {
	f := newFixture(t)
	// Exactly seven days out with a 09:00 release; now is 12:00, so the
	// slot is open. Then move the clock before the release and retry.
	f.addSlot(10, time.Date(2026, 7, 12, 7, 0, 0, 0, testLoc), 4)
	release := types.TimeString("09:00")
	f.schedules.versions[5].AccessRules[0].ReleaseTime = &release

	_, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	f.uc.SetTimeProvider(fixedClock{now: time.Date(2026, 7, 5, 8, 0, 0, 0, testLoc)})
	req := baseRequest()
	req.IdempotencyKey = "key-2"

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, create_booking.ErrWindowNotOpen)
}

func TestExecute_WalkOnlyRejectsRiders(t *testing.T) {
	f := newFixture(t)
	f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)
	f.schedules.versions[5].WalkRideMode = domain.WalkOnly

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, create_booking.ErrWalkRideNotAllowed)
}

func TestExecute_ClassDenied(t *testing.T) {
	f := newFixture(t)
	f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)
	f.schedules.versions[5].AccessRules = []domain.AccessRule{
		{SideID: 2, ClassCode: "member", Allowed: true, MaxDaysInAdvance: 14},
	}

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, create_booking.ErrAccessDenied)
}

func TestExecute_MinimumPlayers(t *testing.T) {
	f := newFixture(t)
	f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)
	f.schedules.versions[5].MinPlayers = 3

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, create_booking.ErrMinimumPlayersNotMet)
}

func TestExecute_PastTeeTime(t *testing.T) {
	f := newFixture(t)
	f.addSlot(10, time.Date(2026, 7, 5, 7, 0, 0, 0, testLoc), 4)

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, create_booking.ErrWindowHasPassed)
}

func TestExecute_BlockedSlotRejected(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)
	slot.IsBlocked = true
	slot.BlockedReason = ptr.Ptr("frost delay")
	slot.BlockSource = ptr.Ptr(domain.BlockSourceClosure)

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, create_booking.ErrCapacityExceeded)
}

func TestExecute_TeeTimeOnWrongSheet(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(10, time.Date(2026, 7, 6, 7, 0, 0, 0, testLoc), 4)
	slot.SheetID = 9

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, create_booking.ErrTeeTimeNotFound)
}

func TestExecute_ValidationFailures(t *testing.T) {
	f := newFixture(t)

	cases := map[string]func(*create_booking.Request){
		"no players":       func(r *create_booking.Request) { r.Players = nil },
		"blank player":     func(r *create_booking.Request) { r.Players = []string{"Alice", " "} },
		"no key":           func(r *create_booking.Request) { r.IdempotencyKey = "" },
		"no class":         func(r *create_booking.Request) { r.ClassCode = "" },
		"party beyond cap": func(r *create_booking.Request) { r.Players = make([]string, domain.MaxPartySize+1) },
		"bad sheet id":     func(r *create_booking.Request) { r.SheetID = 0 },
		"bad tee time id":  func(r *create_booking.Request) { r.TeeTimeID = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := baseRequest()
			mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, create_booking.ErrInvalidInput)
		})
	}
}
