package join_waitlist

import (
	"time"

	createBooking "github.com/fairwaylabs/teesheet-service/internal/usecase/create_booking"
	joinWaitlist "github.com/fairwaylabs/teesheet-service/internal/usecase/join_waitlist"
)

// JoinWaitlistRequest HTTP request model
type JoinWaitlistRequest struct {
	SheetID   int64  `json:"sheetId"`
	ClassCode string `json:"classCode"`
	TeeTimeID int64  `json:"teeTimeId"`
	PartySize int    `json:"partySize"`
	Riding    bool   `json:"riding"`
}

// JoinWaitlistResponse HTTP response model
type JoinWaitlistResponse struct {
	WaitlistID  int64  `json:"waitlistId"`
	Offered     bool   `json:"offered"`
	AcceptToken string `json:"acceptToken,omitempty"`
}

// AcceptOfferRequest redeems an accept token with the final roster.
type AcceptOfferRequest struct {
	WaitlistID  int64    `json:"waitlistId"`
	AcceptToken string   `json:"acceptToken"`
	Players     []string `json:"players"`
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

// BookingResponse HTTP model for the booking made from an offer
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

// AcceptOfferResponse HTTP response model
type AcceptOfferResponse struct {
	WaitlistID int64            `json:"waitlistId"`
	Booking    *BookingResponse `json:"booking"`
}

// ToUseCaseRequest maps the HTTP request onto the use case model.
func (r *JoinWaitlistRequest) ToUseCaseRequest(ownerID int64) *joinWaitlist.JoinRequest {
	return &joinWaitlist.JoinRequest{
		SheetID:   r.SheetID,
		OwnerID:   ownerID,
		ClassCode: r.ClassCode,
		TeeTimeID: r.TeeTimeID,
		PartySize: r.PartySize,
		Riding:    r.Riding,
	}
}

// FromJoinResponse maps the use case response onto the HTTP model.
func FromJoinResponse(resp *joinWaitlist.JoinResponse) *JoinWaitlistResponse {
	return &JoinWaitlistResponse{
		WaitlistID:  resp.WaitlistID,
		Offered:     resp.Offered,
		AcceptToken: resp.AcceptToken,
	}
}

// FromAcceptResponse maps the use case response onto the HTTP model.
func FromAcceptResponse(resp *joinWaitlist.AcceptResponse) *AcceptOfferResponse {
	return &AcceptOfferResponse{
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
