package generate_slots

import (
	generateSlots "github.com/fairwaylabs/teesheet-service/internal/usecase/generate_slots"
)

// GenerateSlotsRequest HTTP request model
type GenerateSlotsRequest struct {
	Date string `json:"date"` // "2026-07-01"
}

// GenerateSlotsResponse reports the outcome of one generation pass.
type GenerateSlotsResponse struct {
	Source    string `json:"source"`
	Generated int    `json:"generated"`
	Retired   int    `json:"retired"`
	Blocked   int    `json:"blocked"`
	Unblocked int    `json:"unblocked"`
}

// FromUseCaseResponse maps the use case response onto the HTTP model.
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	return &GenerateSlotsResponse{
		Source:    string(resp.Source),
		Generated: resp.Generated,
		Retired:   resp.Retired,
		Blocked:   resp.Blocked,
		Unblocked: resp.Unblocked,
	}
}
