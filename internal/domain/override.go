package domain

import (
	"sort"
	"time"

	"github.com/fairwaylabs/teesheet-service/pkg/types"
)

// Override is a single-date exception. A published override fully
// supersedes season resolution for its date; a published version with no
// windows is an explicit closed day.
type Override struct {
	ID                 int64
	SheetID            int64
	Name               string
	PublishedVersionID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OverrideVersion is one immutable revision of an override.
type OverrideVersion struct {
	ID            int64
	OverrideID    int64
	VersionNumber int
	Date          time.Time
	Published     bool

	Windows []OverrideWindow

	CreatedAt time.Time
}

// OrderedWindows returns the version's windows sorted by position.
func (v *OverrideVersion) OrderedWindows() []OverrideWindow {
	windows := make([]OverrideWindow, len(v.Windows))
	copy(windows, v.Windows)
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Position < windows[j].Position
	})
	return windows
}

// OverrideWindow is one abstract window of an override version.
type OverrideWindow struct {
	ID                int64
	OverrideVersionID int64
	Position          int

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

// Resolved converts the override window to the resolver's output form.
func (w OverrideWindow) Resolved() ResolvedWindow {
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
