package domain

import (
	"sort"
	"time"

	"github.com/fairwaylabs/teesheet-service/pkg/types"
)

// WindowMode tags how one end of an abstract window is anchored.
type WindowMode string

const (
	// WindowFixed anchors to a wall-clock time.
	WindowFixed WindowMode = "fixed"
	// WindowSolarOffset anchors to sunrise (start) or sunset (end) plus a
	// signed minute offset.
	WindowSolarOffset WindowMode = "solar_offset"
)

// WindowSource reports which configuration layer produced a resolution.
type WindowSource string

const (
	SourceOverride WindowSource = "override"
	SourceSeason   WindowSource = "season"
	SourceNone     WindowSource = "none"
)

// ResolvedWindow is an abstract window picked for a concrete date by the
// resolver, not yet compiled to clock times.
type ResolvedWindow struct {
	SideID            *int64 // nil = fan out per the template version's sides
	TemplateVersionID int64
	Position          int

	StartMode       WindowMode
	StartClock      *types.TimeString
	StartOffsetMins *int

	EndMode       WindowMode
	EndClock      *types.TimeString
	EndOffsetMins *int

	StartSlotsEnabled bool
}

// CompiledWindow is a concrete, day-clamped, minute-snapped local time
// range for one side, ready for slot generation.
type CompiledWindow struct {
	SideID            int64
	TemplateVersionID int64
	Start             time.Time
	End               time.Time
	IntervalMins      int
	StartSlotsEnabled bool
}

// SlotStarts enumerates the expected slot instants of the window:
// start, start+interval, ... strictly before end.
func (w CompiledWindow) SlotStarts() []time.Time {
	if w.IntervalMins <= 0 {
		return nil
	}
	starts := make([]time.Time, 0)
	step := time.Duration(w.IntervalMins) * time.Minute
	for t := w.Start; t.Before(w.End); t = t.Add(step) {
		starts = append(starts, t)
	}
	return starts
}

// SortCompiledWindows orders windows by side, then start time.
func SortCompiledWindows(windows []CompiledWindow) {
	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].SideID != windows[j].SideID {
			return windows[i].SideID < windows[j].SideID
		}
		return windows[i].Start.Before(windows[j].Start)
	})
}

// NormalizeWeekday maps the legacy weekday value 7 onto Sunday (0).
func NormalizeWeekday(weekday int) int {
	if weekday == 7 {
		return 0
	}
	return weekday
}
