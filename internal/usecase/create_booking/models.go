package create_booking

import (
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// Request carries one booking attempt. TeeTimeID is the first leg's
// slot; EighteenHoles asks for a reround pair computed from the side's
// duration metadata. IdempotencyKey makes replays safe.
type Request struct {
	SheetID        int64
	OwnerID        int64
	ClassCode      string
	TeeTimeID      int64
	Players        []string
	Riding         bool
	EighteenHoles  bool
	Source         domain.BookingSource
	IdempotencyKey string
}

// LegResponse is one booked leg.
type LegResponse struct {
	LegIndex   int
	TeeTimeID  int64
	SideID     int64
	StartTime  time.Time
	Riding     bool
	PriceCents int64
	Players    []string
}

// Response is the created (or replayed) booking.
type Response struct {
	ID              int64
	SheetID         int64
	OwnerID         int64
	ClassCode       string
	Status          string
	Source          string
	TotalPriceCents int64
	Legs            []LegResponse
	CreatedAt       time.Time
}

// toResponse maps a stored booking onto the response shape, used for
// both fresh bookings and idempotent replays so the caller cannot tell
// them apart.
func toResponse(b *domain.Booking) *Response {
	resp := &Response{
		ID:              b.ID,
		SheetID:         b.SheetID,
		OwnerID:         b.OwnerID,
		ClassCode:       b.ClassCode,
		Status:          string(b.Status),
		Source:          string(b.Source),
		TotalPriceCents: b.TotalPriceCents,
		Legs:            make([]LegResponse, 0, len(b.Legs)),
		CreatedAt:       b.CreatedAt,
	}
	for _, leg := range b.Legs {
		players := make([]string, 0, len(leg.Assignments))
		for _, a := range leg.Assignments {
			players = append(players, a.PlayerName)
		}
		resp.Legs = append(resp.Legs, LegResponse{
			LegIndex:   leg.LegIndex,
			TeeTimeID:  leg.TeeTimeID,
			SideID:     leg.SideID,
			StartTime:  leg.StartTime,
			Riding:     leg.Riding,
			PriceCents: leg.PriceCents,
			Players:    players,
		})
	}
	return resp
}
