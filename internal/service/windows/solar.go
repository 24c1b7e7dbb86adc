package windows

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// SunriseAdapter computes sun times from course coordinates.
type SunriseAdapter struct{}

func NewSunriseAdapter() *SunriseAdapter {
	return &SunriseAdapter{}
}

// SunTimes returns local sunrise and sunset for the date. Polar
// edge cases where the sun never rises or sets fall back to the fixed
// default clock times.
func (a *SunriseAdapter) SunTimes(date time.Time, latitude, longitude float64, loc *time.Location) (time.Time, time.Time) {
	rise, set := sunrise.SunriseSunset(latitude, longitude, date.Year(), date.Month(), date.Day())
	if rise.IsZero() || set.IsZero() {
		return defaultSunTimes(date, loc)
	}
	return rise.In(loc), set.In(loc)
}

// defaultSunTimes is the 07:00/18:00 local fallback used when the
// facility has no coordinates or the solar computation degenerates.
func defaultSunTimes(date time.Time, loc *time.Location) (time.Time, time.Time) {
	rise := time.Date(date.Year(), date.Month(), date.Day(), 7, 0, 0, 0, loc)
	set := time.Date(date.Year(), date.Month(), date.Day(), 18, 0, 0, 0, loc)
	return rise, set
}
