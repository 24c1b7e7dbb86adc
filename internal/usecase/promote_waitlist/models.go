package promote_waitlist

import (
	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
)

// Request promotes one waiting entry. Staff trigger promotion after
// capacity frees up.
type Request struct {
	WaitlistID int64
}

// Response is the booking made for the promoted entry.
type Response struct {
	WaitlistID int64
	Booking    *createBooking.Response
}
