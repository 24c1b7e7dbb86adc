package promote_waitlist

import (
	"time"

	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
	promoteWaitlist "github.com/fairwaylabs/teesheet-service/internal/usecase/promote_waitlist"
)

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

// BookingResponse HTTP model for the booking made for the promoted entry
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

// PromoteWaitlistResponse HTTP response model
type PromoteWaitlistResponse struct {
	WaitlistID int64            `json:"waitlistId"`
	Booking    *BookingResponse `json:"booking"`
}

// FromUseCaseResponse maps the use case response onto the HTTP model.
func FromUseCaseResponse(resp *promoteWaitlist.Response) *PromoteWaitlistResponse {
	return &PromoteWaitlistResponse{
		WaitlistID: resp.WaitlistID,
		Booking:    fromBooking(resp.Booking),
	}
}

func fromBooking(b *createBooking.Response) *BookingResponse {
	if b == nil {
		return nil
	}
	legs := make([]LegResponse, 0, len(b.Legs))
	for _, leg := range b.Legs {
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
		ID:              b.ID,
		SheetID:         b.SheetID,
		OwnerID:         b.OwnerID,
		ClassCode:       b.ClassCode,
		Status:          b.Status,
		Source:          b.Source,
		TotalPriceCents: b.TotalPriceCents,
		Legs:            legs,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}
