package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingSource records how the booking entered the system.
type BookingSource string

const (
	SourceDirect   BookingSource = "direct"
	SourceWaitlist BookingSource = "waitlist"
)

// Booking is one round reservation: one leg for nine holes, two legs for
// an eighteen-hole reround pair. IdempotencyKey makes creation replays
// return the original result without double-booking.
type Booking struct {
	ID              int64
	SheetID         int64
	OwnerID         int64
	ClassCode       string
	Status          BookingStatus
	Source          BookingSource
	IdempotencyKey  string
	TotalPriceCents int64

	CancellationReason *string
	CancelledAt        *time.Time

	Legs []RoundLeg

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the booking still holds capacity.
func (b *Booking) IsActive() bool {
	return b.Status == BookingActive
}

// PartySize returns the number of seats held per leg.
func (b *Booking) PartySize() int {
	if len(b.Legs) == 0 {
		return 0
	}
	return len(b.Legs[0].Assignments)
}

// FirstTeeOff returns the start of the earliest leg, used for the
// cancellation cutoff check.
func (b *Booking) FirstTeeOff() time.Time {
	var first time.Time
	for _, leg := range b.Legs {
		if first.IsZero() || leg.StartTime.Before(first) {
			first = leg.StartTime
		}
	}
	return first
}

// RoundLeg is one leg of a round, holding seat-level assignments against
// a single tee time.
type RoundLeg struct {
	ID         int64
	BookingID  int64
	LegIndex   int
	TeeTimeID  int64
	SideID     int64
	StartTime  time.Time
	Riding     bool
	PriceCents int64

	Assignments []SlotAssignment
}

// SlotAssignment links one seat of a leg to its tee time.
type SlotAssignment struct {
	ID         int64
	RoundLegID int64
	TeeTimeID  int64
	PlayerName string
}
