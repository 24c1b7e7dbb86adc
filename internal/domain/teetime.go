package domain

import "time"

// Block sources distinguish generator-managed closure blocks from blocks
// placed manually by staff. Generation re-evaluates closure blocks on
// every pass and never touches manual ones.
const (
	BlockSourceClosure = "closure"
	BlockSourceManual  = "manual"
)

// TeeTime is one generated unit of capacity on the sheet. The
// (SheetID, SideID, StartTime) key is unique and immutable once created.
// AssignedCount is mutated only by the booking engine's assignment
// operations, never by the generator.
type TeeTime struct {
	ID                int64
	SheetID           int64
	SideID            int64
	StartTime         time.Time
	Capacity          int
	AssignedCount     int
	IsBlocked         bool
	BlockedReason     *string
	BlockSource       *string
	TemplateVersionID int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns the unassigned capacity of the slot.
func (t *TeeTime) Remaining() int {
	remaining := t.Capacity - t.AssignedCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanAccommodate reports whether a party of the given size fits.
func (t *TeeTime) CanAccommodate(partySize int) bool {
	return !t.IsBlocked && partySize > 0 && t.Remaining() >= partySize
}

// IsClosureBlocked reports whether the current block was applied by the
// generator from a closure block.
func (t *TeeTime) IsClosureBlocked() bool {
	return t.IsBlocked && t.BlockSource != nil && *t.BlockSource == BlockSourceClosure
}
