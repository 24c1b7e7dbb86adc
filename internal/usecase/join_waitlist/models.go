package join_waitlist

import (
	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
)

// JoinRequest queues interest in an oversubscribed slot.
type JoinRequest struct {
	SheetID   int64
	OwnerID   int64
	ClassCode string
	TeeTimeID int64
	PartySize int
	Riding    bool
}

// JoinResponse reports whether capacity was offered immediately. An
// offer carries a time-boxed accept token; otherwise the entry waits in
// FIFO order.
type JoinResponse struct {
	WaitlistID  int64
	Offered     bool
	AcceptToken string
}

// AcceptRequest redeems an offer with the final roster.
type AcceptRequest struct {
	WaitlistID  int64
	AcceptToken string
	OwnerID     int64
	Players     []string
}

// AcceptResponse is the booking made from the accepted offer.
type AcceptResponse struct {
	WaitlistID int64
	Booking    *createBooking.Response
}
