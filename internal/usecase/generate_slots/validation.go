package generate_slots

import "fmt"

func validateRequest(req *Request) error {
	if req.SheetID <= 0 {
		return fmt.Errorf("%w: sheet id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}
