package list_tee_times

import (
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	listTeeTimes "github.com/fairwaylabs/teesheet-service/internal/usecase/list_tee_times"
)

// SlotResponse HTTP model for one tee time
type SlotResponse struct {
	TeeTimeID     int64   `json:"teeTimeId"`
	SideID        int64   `json:"sideId"`
	StartTime     string  `json:"startTime"`
	Capacity      int     `json:"capacity"`
	Assigned      int     `json:"assigned"`
	Remaining     int     `json:"remaining"`
	IsBlocked     bool    `json:"isBlocked"`
	BlockedReason *string `json:"blockedReason,omitempty"`
}

// ListTeeTimesResponse HTTP response model
type ListTeeTimesResponse struct {
	SheetID int64          `json:"sheetId"`
	Date    string         `json:"date"`
	Slots   []SlotResponse `json:"slots"`
}

// FromUseCaseResponse maps the use case response onto the HTTP model.
func FromUseCaseResponse(resp *listTeeTimes.Response) *ListTeeTimesResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			TeeTimeID:     s.TeeTimeID,
			SideID:        s.SideID,
			StartTime:     s.StartTime.Format(time.RFC3339),
			Capacity:      s.Capacity,
			Assigned:      s.Assigned,
			Remaining:     s.Remaining,
			IsBlocked:     s.IsBlocked,
			BlockedReason: s.BlockedReason,
		})
	}
	return &ListTeeTimesResponse{
		SheetID: resp.SheetID,
		Date:    resp.Date.Format(domain.DateFormat),
		Slots:   slots,
	}
}
