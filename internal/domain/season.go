package domain

import (
	"sort"
	"time"

	"github.com/fairwaylabs/teesheet-service/pkg/types"
)

// Season maps weekdays to template versions over a date range. Versioned
// and published exactly like templates.
type Season struct {
	ID                 int64
	SheetID            int64
	Name               string
	PublishedVersionID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SeasonVersion is one immutable revision of a season covering
// [StartDate, EndDateExclusive).
type SeasonVersion struct {
	ID               int64
	SeasonID         int64
	VersionNumber    int
	StartDate        time.Time
	EndDateExclusive time.Time
	Published        bool

	Windows []WeekdayWindow

	CreatedAt time.Time
}

// ContainsDate reports whether the version's range covers the given
// calendar date. Dates are compared at day precision.
func (v *SeasonVersion) ContainsDate(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(v.StartDate.Year(), v.StartDate.Month(), v.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(v.EndDateExclusive.Year(), v.EndDateExclusive.Month(), v.EndDateExclusive.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && day.Before(end)
}

// WindowsForWeekday returns the version's windows for a weekday
// (0=Sunday), ordered by position. Legacy weekday 7 matches Sunday.
func (v *SeasonVersion) WindowsForWeekday(weekday int) []WeekdayWindow {
	weekday = NormalizeWeekday(weekday)
	matched := make([]WeekdayWindow, 0)
	for _, w := range v.Windows {
		if NormalizeWeekday(w.Weekday) == weekday {
			matched = append(matched, w)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Position < matched[j].Position
	})
	return matched
}

// WeekdayWindow is one abstract window of a season version. Windows of one
// (version, weekday) never share a position, and positions are contiguous
// from zero; both are enforced at publish time.
type WeekdayWindow struct {
	ID              int64
	SeasonVersionID int64
	Weekday         int // 0=Sunday .. 6=Saturday; legacy 7 accepted as Sunday
	Position        int

	SideID            *int64
	TemplateVersionID int64

	StartMode       WindowMode
	StartClock      *types.TimeString
	StartOffsetMins *int

	EndMode       WindowMode
	EndClock      *types.TimeString
	EndOffsetMins *int

	StartSlotsEnabled bool
}

// Resolved converts the weekday window to the resolver's output form.
func (w WeekdayWindow) Resolved() ResolvedWindow {
	return ResolvedWindow{
		SideID:            w.SideID,
		TemplateVersionID: w.TemplateVersionID,
		Position:          w.Position,
		StartMode:         w.StartMode,
		StartClock:        w.StartClock,
		StartOffsetMins:   w.StartOffsetMins,
		EndMode:           w.EndMode,
		EndClock:          w.EndClock,
		EndOffsetMins:     w.EndOffsetMins,
		StartSlotsEnabled: w.StartSlotsEnabled,
	}
}
