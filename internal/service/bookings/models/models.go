package models

import (
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// BookingResponse is the booking shape handed to callers. Handlers
// serialize it as-is.
type BookingResponse struct {
	ID                 int64         `json:"id"`
	SheetID            int64         `json:"sheetId"`
	OwnerID            int64         `json:"ownerId"`
	ClassCode          string        `json:"classCode"`
	Status             string        `json:"status"`
	Source             string        `json:"source"`
	TotalPriceCents    int64         `json:"totalPriceCents"`
	CancellationReason *string       `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time    `json:"cancelledAt,omitempty"`
	Legs               []LegResponse `json:"legs"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// LegResponse is one leg of a booking.
type LegResponse struct {
	ID         int64     `json:"id"`
	LegIndex   int       `json:"legIndex"`
	TeeTimeID  int64     `json:"teeTimeId"`
	SideID     int64     `json:"sideId"`
	StartTime  time.Time `json:"startTime"`
	Riding     bool      `json:"riding"`
	PriceCents int64     `json:"priceCents"`
	Players    []string  `json:"players"`
}

// FromDomainBooking maps a stored booking onto the response shape.
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                 b.ID,
		SheetID:            b.SheetID,
		OwnerID:            b.OwnerID,
		ClassCode:          b.ClassCode,
		Status:             string(b.Status),
		Source:             string(b.Source),
		TotalPriceCents:    b.TotalPriceCents,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		Legs:               make([]LegResponse, 0, len(b.Legs)),
		CreatedAt:          b.CreatedAt,
	}
	for _, leg := range b.Legs {
		players := make([]string, 0, len(leg.Assignments))
		for _, a := range leg.Assignments {
			players = append(players, a.PlayerName)
		}
		resp.Legs = append(resp.Legs, LegResponse{
			ID:         leg.ID,
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
