package windows_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	scheduleRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/schedule"
	sheetRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/sheet"
	"github.com/fairwaylabs/teesheet-service/internal/service/windows"
	"github.com/fairwaylabs/teesheet-service/pkg/ptr"
	"github.com/fairwaylabs/teesheet-service/pkg/types"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fakeSheetRepo struct {
	sheet *domain.Sheet
	sides []*domain.Side
}

func (f *fakeSheetRepo) GetByID(_ context.Context, id int64) (*domain.Sheet, error) {
	if f.sheet == nil || f.sheet.ID != id {
		return nil, sheetRepo.ErrSheetNotFound
	}
	return f.sheet, nil
}

func (f *fakeSheetRepo) ListSides(_ context.Context, _ int64) ([]*domain.Side, error) {
	return f.sides, nil
}

type fakeScheduleRepo struct {
	override *domain.OverrideVersion
	seasons  []*domain.SeasonVersion
	versions map[int64]*domain.TemplateVersion
}

func (f *fakeScheduleRepo) GetPublishedOverrideForDate(_ context.Context, _ int64, _ time.Time) (*domain.OverrideVersion, error) {
	if f.override == nil {
		return nil, scheduleRepo.ErrOverrideVersionNotFound
	}
	return f.override, nil
}

func (f *fakeScheduleRepo) ListPublishedSeasonVersionsForDate(_ context.Context, _ int64, _ time.Time) ([]*domain.SeasonVersion, error) {
	return f.seasons, nil
}

func (f *fakeScheduleRepo) GetTemplateVersion(_ context.Context, id int64) (*domain.TemplateVersion, error) {
	version, ok := f.versions[id]
	if !ok {
		return nil, scheduleRepo.ErrTemplateVersionNotFound
	}
	return version, nil
}

// fixedSolar returns the same instants regardless of coordinates.
type fixedSolar struct {
	sunrise time.Time
	sunset  time.Time
}

func (f fixedSolar) SunTimes(_ time.Time, _, _ float64, _ *time.Location) (time.Time, time.Time) {
	return f.sunrise, f.sunset
}

func testSheet() *domain.Sheet {
	return &domain.Sheet{
		ID:                1,
		Name:              "Pine Hollow",
		Timezone:          "America/New_York",
		CancelCutoffHours: 24,
	}
}

func testSide(id int64) *domain.Side {
	return &domain.Side{
		ID:               id,
		SheetID:          1,
		Name:             "Front Nine",
		ValidFrom:        time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		SlotIntervalMins: 10,
		HoleCount:        9,
		MinutesPerHole:   10,
	}
}

func clock(s string) *types.TimeString {
	ts := types.TimeString(s)
	return &ts
}

func fixedWindow(versionID int64, start, end string) domain.ResolvedWindow {
	return domain.ResolvedWindow{
		TemplateVersionID: versionID,
		StartMode:         domain.WindowFixed,
		StartClock:        clock(start),
		EndMode:           domain.WindowFixed,
		EndClock:          clock(end),
		StartSlotsEnabled: true,
	}
}

func TestResolve_OverrideWinsOverSeason(t *testing.T) {
	date := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)

	schedules := &fakeScheduleRepo{
		override: &domain.OverrideVersion{
			ID:        10,
			Published: true,
			Date:      date,
			Windows: []domain.OverrideWindow{
				{Position: 1, TemplateVersionID: 5, StartMode: domain.WindowFixed, StartClock: clock("10:00"), EndMode: domain.WindowFixed, EndClock: clock("12:00")},
				{Position: 0, TemplateVersionID: 5, StartMode: domain.WindowFixed, StartClock: clock("07:00"), EndMode: domain.WindowFixed, EndClock: clock("09:00")},
			},
		},
		seasons: []*domain.SeasonVersion{{ID: 20, Published: true}},
	}
	svc := windows.NewService(&fakeSheetRepo{sheet: testSheet()}, schedules, fixedSolar{}, noopLogger{})

	result, err := svc.Resolve(context.Background(), 1, date)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceOverride, result.Source)
	require.Len(t, result.Windows, 2)
	assert.Equal(t, 0, result.Windows[0].Position)
	assert.Equal(t, 1, result.Windows[1].Position)
}

func TestResolve_EmptyOverrideClosesDay(t *testing.T) {
	// A published override with no windows still governs the date: the
	// season must not leak through.
	schedules := &fakeScheduleRepo{
		override: &domain.OverrideVersion{ID: 10, Published: true},
		seasons: []*domain.SeasonVersion{{
			ID:        20,
			Published: true,
			Windows: []domain.WeekdayWindow{
				{Weekday: 6, Position: 0, TemplateVersionID: 5, StartMode: domain.WindowFixed, StartClock: clock("07:00"), EndMode: domain.WindowFixed, EndClock: clock("18:00")},
			},
		}},
	}
	svc := windows.NewService(&fakeSheetRepo{sheet: testSheet()}, schedules, fixedSolar{}, noopLogger{})

	result, err := svc.Resolve(context.Background(), 1, time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, domain.SourceOverride, result.Source)
	assert.Empty(t, result.Windows)
}

func TestResolve_SeasonWeekdayMatch(t *testing.T) {
	// 2026-07-06 is a Monday in New York.
	date := time.Date(2026, 7, 6, 12, 0, 0, 0, time.UTC)

	schedules := &fakeScheduleRepo{
		seasons: []*domain.SeasonVersion{{
			ID:        20,
			Published: true,
			Windows: []domain.WeekdayWindow{
				{Weekday: 1, Position: 0, TemplateVersionID: 5, StartMode: domain.WindowFixed, StartClock: clock("07:00"), EndMode: domain.WindowFixed, EndClock: clock("12:00")},
				{Weekday: 2, Position: 0, TemplateVersionID: 5, StartMode: domain.WindowFixed, StartClock: clock("08:00"), EndMode: domain.WindowFixed, EndClock: clock("12:00")},
			},
		}},
	}
	svc := windows.NewService(&fakeSheetRepo{sheet: testSheet()}, schedules, fixedSolar{}, noopLogger{})

	result, err := svc.Resolve(context.Background(), 1, date)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceSeason, result.Source)
	require.Len(t, result.Windows, 1)
	assert.Equal(t, "07:00", result.Windows[0].StartClock.String())
}

func TestResolve_FirstSeasonWins(t *testing.T) {
	schedules := &fakeScheduleRepo{
		seasons: []*domain.SeasonVersion{
			{
				ID:        20,
				Published: true,
				Windows: []domain.WeekdayWindow{
					{Weekday: 1, Position: 0, TemplateVersionID: 5, StartMode: domain.WindowFixed, StartClock: clock("07:00"), EndMode: domain.WindowFixed, EndClock: clock("10:00")},
				},
			},
			{
				ID:        21,
				Published: true,
				Windows: []domain.WeekdayWindow{
					{Weekday: 1, Position: 0, TemplateVersionID: 6, StartMode: domain.WindowFixed, StartClock: clock("09:00"), EndMode: domain.WindowFixed, EndClock: clock("15:00")},
				},
			},
		},
	}
	svc := windows.NewService(&fakeSheetRepo{sheet: testSheet()}, schedules, fixedSolar{}, noopLogger{})

	result, err := svc.Resolve(context.Background(), 1, time.Date(2026, 7, 6, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, result.Windows, 1)
	assert.Equal(t, int64(5), result.Windows[0].TemplateVersionID)
}

func TestResolve_NoConfiguration(t *testing.T) {
	svc := windows.NewService(&fakeSheetRepo{sheet: testSheet()}, &fakeScheduleRepo{}, fixedSolar{}, noopLogger{})

	result, err := svc.Resolve(context.Background(), 1, time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, domain.SourceNone, result.Source)
	assert.Empty(t, result.Windows)
}

func TestResolve_SheetNotFound(t *testing.T) {
	svc := windows.NewService(&fakeSheetRepo{}, &fakeScheduleRepo{}, fixedSolar{}, noopLogger{})

	_, err := svc.Resolve(context.Background(), 99, time.Now())
	assert.ErrorIs(t, err, windows.ErrSheetNotFound)
}

func TestCompile_FixedWindow(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	date := time.Date(2026, 7, 6, 0, 0, 0, 0, loc)

	side := testSide(2)
	sheets := &fakeSheetRepo{sheet: testSheet(), sides: []*domain.Side{side}}
	schedules := &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
		5: {ID: 5, SlotIntervalMins: 15, DefaultCapacity: 4, Published: true},
	}}
	svc := windows.NewService(sheets, schedules, fixedSolar{}, noopLogger{})

	window := fixedWindow(5, "07:00", "09:00")
	window.SideID = ptr.Ptr(int64(2))

	compiled, err := svc.Compile(context.Background(), 1, date, []domain.ResolvedWindow{window})
	require.NoError(t, err)

	require.Len(t, compiled, 1)
	assert.Equal(t, int64(2), compiled[0].SideID)
	assert.Equal(t, time.Date(2026, 7, 6, 7, 0, 0, 0, loc), compiled[0].Start)
	assert.Equal(t, time.Date(2026, 7, 6, 9, 0, 0, 0, loc), compiled[0].End)
	assert.Equal(t, 15, compiled[0].IntervalMins)
	assert.True(t, compiled[0].StartSlotsEnabled)
}

func TestCompile_TwelveHourClock(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	date := time.Date(2026, 7, 6, 0, 0, 0, 0, loc)

	sheets := &fakeSheetRepo{sheet: testSheet(), sides: []*domain.Side{testSide(2)}}
	schedules := &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
		5: {ID: 5, SlotIntervalMins: 10, Published: true},
	}}
	svc := windows.NewService(sheets, schedules, fixedSolar{}, noopLogger{})

	window := fixedWindow(5, "7:00 AM", "1:30 PM")
	window.SideID = ptr.Ptr(int64(2))

	compiled, err := svc.Compile(context.Background(), 1, date, []domain.ResolvedWindow{window})
	require.NoError(t, err)

	require.Len(t, compiled, 1)
	assert.Equal(t, time.Date(2026, 7, 6, 7, 0, 0, 0, loc), compiled[0].Start)
	assert.Equal(t, time.Date(2026, 7, 6, 13, 30, 0, 0, loc), compiled[0].End)
}

func TestCompile_SolarOffsets(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	date := time.Date(2026, 7, 6, 0, 0, 0, 0, loc)
	solar := fixedSolar{
		sunrise: time.Date(2026, 7, 6, 5, 37, 30, 0, loc),
		sunset:  time.Date(2026, 7, 6, 20, 30, 0, 0, loc),
	}

	sheet := testSheet()
	sheet.Latitude = ptr.Ptr(40.7)
	sheet.Longitude = ptr.Ptr(-74.0)
	sheets := &fakeSheetRepo{sheet: sheet, sides: []*domain.Side{testSide(2)}}
	schedules := &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
		5: {ID: 5, SlotIntervalMins: 10, Published: true},
	}}
	svc := windows.NewService(sheets, schedules, solar, noopLogger{})

	window := domain.ResolvedWindow{
		SideID:            ptr.Ptr(int64(2)),
		TemplateVersionID: 5,
		StartMode:         domain.WindowSolarOffset,
		StartOffsetMins:   ptr.Ptr(30),
		EndMode:           domain.WindowSolarOffset,
		EndOffsetMins:     ptr.Ptr(-60),
		StartSlotsEnabled: true,
	}

	compiled, err := svc.Compile(context.Background(), 1, date, []domain.ResolvedWindow{window})
	require.NoError(t, err)

	require.Len(t, compiled, 1)
	// Sunrise+30m snapped down to the minute, sunset-60m untouched.
	assert.Equal(t, time.Date(2026, 7, 6, 6, 7, 0, 0, loc), compiled[0].Start)
	assert.Equal(t, time.Date(2026, 7, 6, 19, 30, 0, 0, loc), compiled[0].End)
}

func TestCompile_ClampsToDay(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	date := time.Date(2026, 7, 6, 0, 0, 0, 0, loc)
	solar := fixedSolar{
		sunrise: time.Date(2026, 7, 6, 0, 20, 0, 0, loc),
		sunset:  time.Date(2026, 7, 6, 23, 45, 0, 0, loc),
	}

	sheet := testSheet()
	sheet.Latitude = ptr.Ptr(65.0)
	sheet.Longitude = ptr.Ptr(-18.0)
	sheets := &fakeSheetRepo{sheet: sheet, sides: []*domain.Side{testSide(2)}}
	schedules := &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
		5: {ID: 5, SlotIntervalMins: 10, Published: true},
	}}
	svc := windows.NewService(sheets, schedules, solar, noopLogger{})

	window := domain.ResolvedWindow{
		SideID:            ptr.Ptr(int64(2)),
		TemplateVersionID: 5,
		StartMode:         domain.WindowSolarOffset,
		StartOffsetMins:   ptr.Ptr(-90),
		EndMode:           domain.WindowSolarOffset,
		EndOffsetMins:     ptr.Ptr(120),
		StartSlotsEnabled: true,
	}

	compiled, err := svc.Compile(context.Background(), 1, date, []domain.ResolvedWindow{window})
	require.NoError(t, err)

	require.Len(t, compiled, 1)
	assert.Equal(t, time.Date(2026, 7, 6, 0, 0, 0, 0, loc), compiled[0].Start)
	assert.Equal(t, time.Date(2026, 7, 7, 0, 0, 0, 0, loc), compiled[0].End)
}

func TestCompile_DropsCollapsedWindow(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	date := time.Date(2026, 7, 6, 0, 0, 0, 0, loc)

	sheets := &fakeSheetRepo{sheet: testSheet(), sides: []*domain.Side{testSide(2)}}
	schedules := &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
		5: {ID: 5, SlotIntervalMins: 10, Published: true},
	}}
	svc := windows.NewService(sheets, schedules, fixedSolar{}, noopLogger{})

	window := fixedWindow(5, "09:00", "09:00")
	window.SideID = ptr.Ptr(int64(2))

	compiled, err := svc.Compile(context.Background(), 1, date, []domain.ResolvedWindow{window})
	require.NoError(t, err)
	assert.Empty(t, compiled)
}

func TestCompile_SkipsMissingTemplateVersion(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	date := time.Date(2026, 7, 6, 0, 0, 0, 0, loc)

	sheets := &fakeSheetRepo{sheet: testSheet(), sides: []*domain.Side{testSide(2)}}
	schedules := &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
		5: {ID: 5, SlotIntervalMins: 10, Published: true},
	}}
	svc := windows.NewService(sheets, schedules, fixedSolar{}, noopLogger{})

	missing := fixedWindow(99, "07:00", "08:00")
	missing.SideID = ptr.Ptr(int64(2))
	present := fixedWindow(5, "09:00", "10:00")
	present.SideID = ptr.Ptr(int64(2))

	compiled, err := svc.Compile(context.Background(), 1, date, []domain.ResolvedWindow{missing, present})
	require.NoError(t, err)

	require.Len(t, compiled, 1)
	assert.Equal(t, int64(5), compiled[0].TemplateVersionID)
}

func TestCompile_FansOutToVersionSides(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	date := time.Date(2026, 7, 6, 0, 0, 0, 0, loc)

	front := testSide(2)
	back := testSide(3)
	back.Name = "Back Nine"
	sheets := &fakeSheetRepo{sheet: testSheet(), sides: []*domain.Side{front, back}}
	schedules := &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
		5: {
			ID:               5,
			SlotIntervalMins: 10,
			Published:        true,
			Sides: []domain.TemplateVersionSide{
				{SideID: 2, StartSlotsEnabled: true},
				{SideID: 3, StartSlotsEnabled: false},
			},
		},
	}}
	svc := windows.NewService(sheets, schedules, fixedSolar{}, noopLogger{})

	compiled, err := svc.Compile(context.Background(), 1, date, []domain.ResolvedWindow{fixedWindow(5, "07:00", "09:00")})
	require.NoError(t, err)

	require.Len(t, compiled, 2)
	assert.Equal(t, int64(2), compiled[0].SideID)
	assert.True(t, compiled[0].StartSlotsEnabled)
	assert.Equal(t, int64(3), compiled[1].SideID)
	assert.False(t, compiled[1].StartSlotsEnabled)
}

func TestCompile_FallsBackToActiveSides(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	date := time.Date(2026, 7, 6, 0, 0, 0, 0, loc)

	active := testSide(2)
	retired := testSide(3)
	retired.ValidTo = ptr.Ptr(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	sheets := &fakeSheetRepo{sheet: testSheet(), sides: []*domain.Side{active, retired}}
	schedules := &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
		5: {ID: 5, SlotIntervalMins: 10, Published: true},
	}}
	svc := windows.NewService(sheets, schedules, fixedSolar{}, noopLogger{})

	compiled, err := svc.Compile(context.Background(), 1, date, []domain.ResolvedWindow{fixedWindow(5, "07:00", "09:00")})
	require.NoError(t, err)

	require.Len(t, compiled, 1)
	assert.Equal(t, int64(2), compiled[0].SideID)
}

func TestCompile_IntervalFallsBackToSide(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	date := time.Date(2026, 7, 6, 0, 0, 0, 0, loc)

	side := testSide(2)
	side.SlotIntervalMins = 12
	sheets := &fakeSheetRepo{sheet: testSheet(), sides: []*domain.Side{side}}
	schedules := &fakeScheduleRepo{versions: map[int64]*domain.TemplateVersion{
		5: {ID: 5, Published: true},
	}}
	svc := windows.NewService(sheets, schedules, fixedSolar{}, noopLogger{})

	window := fixedWindow(5, "07:00", "08:00")
	window.SideID = ptr.Ptr(int64(2))

	compiled, err := svc.Compile(context.Background(), 1, date, []domain.ResolvedWindow{window})
	require.NoError(t, err)

	require.Len(t, compiled, 1)
	assert.Equal(t, 12, compiled[0].IntervalMins)
}

func TestSlotStarts(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	window := domain.CompiledWindow{
		Start:        time.Date(2026, 7, 6, 7, 0, 0, 0, loc),
		End:          time.Date(2026, 7, 6, 9, 0, 0, 0, loc),
		IntervalMins: 60,
	}

	starts := window.SlotStarts()
	require.Len(t, starts, 2)
	assert.Equal(t, time.Date(2026, 7, 6, 7, 0, 0, 0, loc), starts[0])
	assert.Equal(t, time.Date(2026, 7, 6, 8, 0, 0, 0, loc), starts[1])
}
