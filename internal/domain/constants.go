package domain

// Default configuration values
const (
	DefaultSlotIntervalMins = 10
	DefaultCapacity         = 4
	DefaultMinPlayers       = 1
	DefaultMaxStartingLegs  = 1

	// Solar fallback clocks used when a sheet has no coordinates.
	DefaultSunriseClock = "07:00"
	DefaultSunsetClock  = "18:00"
)

// ClassFull is the generic public booking class every facility carries.
// Access and pricing resolution fall back to it when a specific class has
// no rule of its own.
const ClassFull = "full"

// Actor roles consumed from the identity collaborator.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

// Business validation constants
const (
	MinSlotIntervalMins = 5
	MaxSlotIntervalMins = 120
	MaxPartySize        = 8
	MaxLegsPerBooking   = 2
	MaxReasonLength     = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
