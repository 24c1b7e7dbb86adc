package generate_slots

import (
	"time"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
)

// Request asks for slot generation on one (sheet, date) pair.
type Request struct {
	SheetID int64
	Date    time.Time
}

// Response reports what one generation pass did. Running the same pass
// again against unchanged configuration yields all-zero counters.
type Response struct {
	Source    domain.WindowSource
	Generated int
	Retired   int
	Blocked   int
	Unblocked int
}
