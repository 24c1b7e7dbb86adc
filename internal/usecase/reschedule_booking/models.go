package reschedule_booking

import (
	"time"
)

// Request moves all legs of an active booking onto a new first-leg slot.
// Multi-leg bookings recompute their reround pairing from the
// destination.
type Request struct {
	BookingID    int64
	ActorID      int64
	Role         string
	NewTeeTimeID int64
}

// LegResponse is one moved leg.
type LegResponse struct {
	LegIndex   int
	TeeTimeID  int64
	SideID     int64
	StartTime  time.Time
	Riding     bool
	PriceCents int64
	Players    []string
}

// Response is the booking after the move.
type Response struct {
	ID              int64
	SheetID         int64
	OwnerID         int64
	ClassCode       string
	Status          string
	TotalPriceCents int64
	Legs            []LegResponse
}
