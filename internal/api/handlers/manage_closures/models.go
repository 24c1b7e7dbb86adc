package manage_closures

import (
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// CreateClosureRequest HTTP request model. Times are RFC3339 instants.
type CreateClosureRequest struct {
	SideID   *int64 `json:"sideId,omitempty"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
	Reason   string `json:"reason"`
}

// ClosureResponse HTTP response model
type ClosureResponse struct {
	ID       int64  `json:"id"`
	SheetID  int64  `json:"sheetId"`
	SideID   *int64 `json:"sideId,omitempty"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
	Reason   string `json:"reason"`
}

// ToDomain parses the request into a closure block for the sheet.
func (r *CreateClosureRequest) ToDomain(sheetID int64) (*domain.ClosureBlock, error) {
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return nil, err
	}
	endsAt, err := time.Parse(time.RFC3339, r.EndsAt)
	if err != nil {
		return nil, err
	}
	return &domain.ClosureBlock{
		SheetID:  sheetID,
		SideID:   r.SideID,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Reason:   r.Reason,
	}, nil
}

// FromDomain maps a stored closure onto the HTTP model.
func FromDomain(c *domain.ClosureBlock) *ClosureResponse {
	return &ClosureResponse{
		ID:       c.ID,
		SheetID:  c.SheetID,
		SideID:   c.SideID,
		StartsAt: c.StartsAt.Format(time.RFC3339),
		EndsAt:   c.EndsAt.Format(time.RFC3339),
		Reason:   c.Reason,
	}
}
