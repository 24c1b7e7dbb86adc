package domain

import "time"

// ClosureBlock is an ad-hoc blackout over [StartsAt, EndsAt), either
// facility-wide (SideID nil) or for a single side. Closures are
// independent of template configuration and re-evaluated on every
// generation pass.
type ClosureBlock struct {
	ID       int64
	SheetID  int64
	SideID   *int64 // nil = whole facility
	StartsAt time.Time
	EndsAt   time.Time
	Reason   string

	CreatedAt time.Time
}

// AppliesToSide reports whether the closure affects the given side.
func (c *ClosureBlock) AppliesToSide(sideID int64) bool {
	return c.SideID == nil || *c.SideID == sideID
}

// Covers reports whether the closure blocks a slot starting at the given
// instant on the given side.
func (c *ClosureBlock) Covers(instant time.Time, sideID int64) bool {
	if !c.AppliesToSide(sideID) {
		return false
	}
	return !instant.Before(c.StartsAt) && instant.Before(c.EndsAt)
}
