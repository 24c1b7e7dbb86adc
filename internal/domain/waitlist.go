package domain

import "time"

// WaitlistStatus represents the state of a waitlist entry.
type WaitlistStatus string

const (
	WaitlistWaiting  WaitlistStatus = "waiting"
	WaitlistOffered  WaitlistStatus = "offered"
	WaitlistAccepted WaitlistStatus = "accepted"
	WaitlistExpired  WaitlistStatus = "expired"
)

// WaitlistEntry queues an oversubscribed request against a tee time.
// CreatedAt ordering drives oldest-first promotion.
type WaitlistEntry struct {
	ID        int64
	SheetID   int64
	SideID    *int64
	TeeTimeID int64
	OwnerID   int64
	PartySize int
	ClassCode string
	Status    WaitlistStatus
	Riding    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsWaiting reports whether the entry is still eligible for promotion.
func (e *WaitlistEntry) IsWaiting() bool {
	return e.Status == WaitlistWaiting
}
