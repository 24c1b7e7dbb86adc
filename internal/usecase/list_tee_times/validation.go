package list_tee_times

import "fmt"

func validateRequest(req *Request) error {
	if req.SheetID <= 0 {
		return fmt.Errorf("%w: sheet id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.SideID != nil && *req.SideID <= 0 {
		return fmt.Errorf("%w: side id must be positive", ErrInvalidInput)
	}
	return nil
}
