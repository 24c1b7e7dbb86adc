package list_tee_times

import (
	"time"
)

// Request lists the slots of one sheet on one date, optionally filtered
// to a single side. OnlyAvailable drops blocked and full slots.
type Request struct {
	SheetID       int64
	Date          time.Time
	SideID        *int64
	OnlyAvailable bool
}

// SlotResponse is one tee time with its remaining capacity.
type SlotResponse struct {
	TeeTimeID     int64
	SideID        int64
	StartTime     time.Time
	Capacity      int
	Assigned      int
	Remaining     int
	IsBlocked     bool
	BlockedReason *string
}

// Response is the day's slot listing in side-then-start order.
type Response struct {
	SheetID int64
	Date    time.Time
	Slots   []SlotResponse
}
