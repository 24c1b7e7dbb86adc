package promote_waitlist_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	teetimeRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/teetime"
	waitlistRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/waitlist"
	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
	"github.com/fairwaylabs/teesheet-service/internal/usecase/promote_waitlist"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fakeWaitlistRepo struct {
	entries map[int64]*domain.WaitlistEntry
}

func (f *fakeWaitlistRepo) GetByID(_ context.Context, id int64) (*domain.WaitlistEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, waitlistRepo.ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeWaitlistRepo) OldestWaitingForTeeTime(_ context.Context, teeTimeID int64, freeCapacity int) (*domain.WaitlistEntry, error) {
	var waiting []*domain.WaitlistEntry
	for _, e := range f.entries {
		if e.TeeTimeID == teeTimeID && e.IsWaiting() && e.PartySize <= freeCapacity {
			waiting = append(waiting, e)
		}
	}
	if len(waiting) == 0 {
		return nil, waitlistRepo.ErrEntryNotFound
	}
	sort.Slice(waiting, func(i, j int) bool {
		if !waiting[i].CreatedAt.Equal(waiting[j].CreatedAt) {
			return waiting[i].CreatedAt.Before(waiting[j].CreatedAt)
		}
		return waiting[i].ID < waiting[j].ID
	})
	return waiting[0], nil
}

func (f *fakeWaitlistRepo) UpdateStatus(_ context.Context, id int64, from, to domain.WaitlistStatus) error {
	e, ok := f.entries[id]
	if !ok || e.Status != from {
		return waitlistRepo.ErrEntryNotFound
	}
	e.Status = to
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

type fakeBooker struct {
	lastReq *createBooking.Request
	resp    *createBooking.Response
	err     error
}

func (f *fakeBooker) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func entry(id int64, partySize int, createdAt time.Time) *domain.WaitlistEntry {
	return &domain.WaitlistEntry{
		ID:        id,
		SheetID:   1,
		TeeTimeID: 10,
		OwnerID:   40 + id,
		PartySize: partySize,
		ClassCode: domain.ClassFull,
		Status:    domain.WaitlistWaiting,
		CreatedAt: createdAt,
	}
}

type fixture struct {
	waitlist *fakeWaitlistRepo
	teeTimes *fakeTeeTimeRepo
	booker   *fakeBooker
	uc       *promote_waitlist.UseCase
}

func newFixture(remaining int, entries ...*domain.WaitlistEntry) *fixture {
	f := &fixture{
		waitlist: &fakeWaitlistRepo{entries: map[int64]*domain.WaitlistEntry{}},
		teeTimes: &fakeTeeTimeRepo{slots: map[int64]*domain.TeeTime{
			10: {ID: 10, SheetID: 1, SideID: 2, Capacity: 4, AssignedCount: 4 - remaining},
		}},
		booker: &fakeBooker{resp: &createBooking.Response{ID: 88, Status: string(domain.BookingActive)}},
	}
	for _, e := range entries {
		f.waitlist.entries[e.ID] = e
	}
	f.uc = promote_waitlist.NewUseCase(f.waitlist, f.teeTimes, f.booker, noopLogger{})
	return f
}

var base = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

func TestExecute_PromotesOldestEntry(t *testing.T) {
	f := newFixture(2, entry(1, 2, base), entry(2, 2, base.Add(time.Minute)))

	resp, err := f.uc.Execute(context.Background(), &promote_waitlist.Request{WaitlistID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.WaitlistID)
	assert.Equal(t, int64(88), resp.Booking.ID)
	assert.Equal(t, domain.WaitlistAccepted, f.waitlist.entries[1].Status)

	require.NotNil(t, f.booker.lastReq)
	assert.Equal(t, domain.SourceWaitlist, f.booker.lastReq.Source)
	assert.Equal(t, []string{"Guest 1", "Guest 2"}, f.booker.lastReq.Players)
}

func TestExecute_YoungerEntryMustWait(t *testing.T) {
	f := newFixture(2, entry(1, 2, base), entry(2, 2, base.Add(time.Minute)))

	_, err := f.uc.Execute(context.Background(), &promote_waitlist.Request{WaitlistID: 2})
	assert.ErrorIs(t, err, promote_waitlist.ErrNotOldestEntry)
	assert.Equal(t, domain.WaitlistWaiting, f.waitlist.entries[2].Status)
}

func TestExecute_OversizedOlderEntryIsSkipped(t *testing.T) {
	// Entry 1 wants four seats but only two are free; entry 2 fits and is
	// the oldest entry that does.
	f := newFixture(2, entry(1, 4, base), entry(2, 2, base.Add(time.Minute)))

	resp, err := f.uc.Execute(context.Background(), &promote_waitlist.Request{WaitlistID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.WaitlistID)
}

func TestExecute_CapacityExceeded(t *testing.T) {
	f := newFixture(1, entry(1, 3, base))

	_, err := f.uc.Execute(context.Background(), &promote_waitlist.Request{WaitlistID: 1})
	assert.ErrorIs(t, err, promote_waitlist.ErrCapacityExceeded)
}

func TestExecute_LosesRaceInsideEngine(t *testing.T) {
	f := newFixture(2, entry(1, 2, base))
	f.booker.err = createBooking.ErrCapacityExceeded

	_, err := f.uc.Execute(context.Background(), &promote_waitlist.Request{WaitlistID: 1})
	assert.ErrorIs(t, err, promote_waitlist.ErrCapacityExceeded)
	assert.Equal(t, domain.WaitlistWaiting, f.waitlist.entries[1].Status)
}

func TestExecute_EntryNotWaiting(t *testing.T) {
	accepted := entry(1, 2, base)
	accepted.Status = domain.WaitlistAccepted
	f := newFixture(2, accepted)

	_, err := f.uc.Execute(context.Background(), &promote_waitlist.Request{WaitlistID: 1})
	assert.ErrorIs(t, err, promote_waitlist.ErrEntryNotWaiting)
}

func TestExecute_EntryNotFound(t *testing.T) {
	f := newFixture(2)

	_, err := f.uc.Execute(context.Background(), &promote_waitlist.Request{WaitlistID: 9})
	assert.ErrorIs(t, err, promote_waitlist.ErrEntryNotFound)
}
