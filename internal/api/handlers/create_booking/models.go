package create_booking

import (
	"time"

	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SheetID        int64    `json:"sheetId"`
	ClassCode      string   `json:"classCode"`
	TeeTimeID      int64    `json:"teeTimeId"`
	Players        []string `json:"players"`
	Riding         bool     `json:"riding"`
	EighteenHoles  bool     `json:"eighteenHoles"`
	IdempotencyKey string   `json:"idempotencyKey"`
}

// LegResponse HTTP model for one booked leg
type LegResponse struct {
	LegIndex   int      `json:"legIndex"`
	TeeTimeID  int64    `json:"teeTimeId"`
	SideID     int64    `json:"sideId"`
	StartTime  string   `json:"startTime"`
	Riding     bool     `json:"riding"`
	PriceCents int64    `json:"priceCents"`
	Players    []string `json:"players"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64         `json:"id"`
	SheetID         int64         `json:"sheetId"`
	OwnerID         int64         `json:"ownerId"`
	ClassCode       string        `json:"classCode"`
	Status          string        `json:"status"`
	Source          string        `json:"source"`
	TotalPriceCents int64         `json:"totalPriceCents"`
	Legs            []LegResponse `json:"legs"`
	CreatedAt       string        `json:"createdAt"`
}

// ToUseCaseRequest maps the HTTP request onto the use case model. The
// owner comes from the auth middleware, never from the body.
func (r *CreateBookingRequest) ToUseCaseRequest(ownerID int64) *createBooking.Request {
	return &createBooking.Request{
		SheetID:        r.SheetID,
		OwnerID:        ownerID,
		ClassCode:      r.ClassCode,
		TeeTimeID:      r.TeeTimeID,
		Players:        r.Players,
		Riding:         r.Riding,
		EighteenHoles:  r.EighteenHoles,
		IdempotencyKey: r.IdempotencyKey,
	}
}

// FromUseCaseResponse maps the use case response onto the HTTP model.
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	legs := make([]LegResponse, 0, len(resp.Legs))
	for _, leg := range resp.Legs {
		legs = append(legs, LegResponse{
			LegIndex:   leg.LegIndex,
			TeeTimeID:  leg.TeeTimeID,
			SideID:     leg.SideID,
			StartTime:  leg.StartTime.Format(time.RFC3339),
			Riding:     leg.Riding,
			PriceCents: leg.PriceCents,
			Players:    leg.Players,
		})
	}
	return &BookingResponse{
		ID:              resp.ID,
		SheetID:         resp.SheetID,
		OwnerID:         resp.OwnerID,
		ClassCode:       resp.ClassCode,
		Status:          resp.Status,
		Source:          resp.Source,
		TotalPriceCents: resp.TotalPriceCents,
		Legs:            legs,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
