package domain

import "time"

// Sheet represents a tee sheet: one bookable golf facility with its
// timezone, optional coordinates for solar window resolution, and the
// customer cancellation cutoff.
type Sheet struct {
	ID                int64
	Name              string
	Timezone          string // IANA name, e.g. "America/New_York"
	Latitude          *float64
	Longitude         *float64
	CancelCutoffHours int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location resolves the sheet's IANA timezone.
func (s *Sheet) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// HasCoordinates reports whether solar times can be computed for the sheet.
func (s *Sheet) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// Side represents a physically bookable lane of holes (e.g. a nine-hole
// loop). Sides carry an effective date range; ranges of sides sharing a
// name never overlap.
type Side struct {
	ID               int64
	SheetID          int64
	Name             string
	ValidFrom        time.Time
	ValidTo          *time.Time // nil = open-ended
	SlotIntervalMins int
	HoleCount        int
	MinutesPerHole   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveOn reports whether the side is effective on the given date.
func (s *Side) ActiveOn(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	from := time.Date(s.ValidFrom.Year(), s.ValidFrom.Month(), s.ValidFrom.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(from) {
		return false
	}
	if s.ValidTo != nil {
		to := time.Date(s.ValidTo.Year(), s.ValidTo.Month(), s.ValidTo.Day(), 0, 0, 0, 0, time.UTC)
		if day.After(to) {
			return false
		}
	}
	return true
}

// RoundDurationMinutes is the playing time of one leg on this side,
// used to compute the reround pairing.
func (s *Side) RoundDurationMinutes() int {
	return s.HoleCount * s.MinutesPerHole
}
