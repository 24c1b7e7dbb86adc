package reschedule_booking

import (
	"time"

	rescheduleBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewTeeTimeID int64 `json:"newTeeTimeId"`
}

// LegResponse HTTP model for one moved leg
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
	TotalPriceCents int64         `json:"totalPriceCents"`
	Legs            []LegResponse `json:"legs"`
}

// FromUseCaseResponse maps the use case response onto the HTTP model.
func FromUseCaseResponse(resp *rescheduleBooking.Response) *BookingResponse {
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
		TotalPriceCents: resp.TotalPriceCents,
		Legs:            legs,
	}
}
