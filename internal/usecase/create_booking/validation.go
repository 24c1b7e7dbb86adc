package create_booking

import (
	"fmt"
	"strings"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

func validateRequest(req *Request) error {
	if req.SheetID <= 0 {
		return fmt.Errorf("%w: sheet id must be positive", ErrInvalidInput)
	}
	if req.OwnerID <= 0 {
		return fmt.Errorf("%w: owner id must be positive", ErrInvalidInput)
	}
	if req.TeeTimeID <= 0 {
		return fmt.Errorf("%w: tee time id must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		return fmt.Errorf("%w: idempotency key is required", ErrInvalidInput)
	}
	if len(req.Players) == 0 {
		return fmt.Errorf("%w: at least one player is required", ErrInvalidInput)
	}
	if len(req.Players) > domain.MaxPartySize {
		return fmt.Errorf("%w: party size exceeds %d", ErrInvalidInput, domain.MaxPartySize)
	}
	for _, name := range req.Players {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: player names must not be empty", ErrInvalidInput)
		}
	}
	if req.ClassCode == "" {
		return fmt.Errorf("%w: booking class is required", ErrInvalidInput)
	}
	return nil
}
