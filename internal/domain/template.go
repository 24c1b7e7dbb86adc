package domain

import (
	"time"

	"github.com/fairwaylabs/teesheet-service/pkg/types"
)

// WalkRideMode constrains how players move around the course.
type WalkRideMode string

const (
	WalkOnly   WalkRideMode = "walk_only"
	RideOnly   WalkRideMode = "ride_only"
	WalkOrRide WalkRideMode = "walk_or_ride"
)

// Template is a reusable slot-generation and pricing/access configuration.
// It exists as an immutable sequence of versions; PublishedVersionID is the
// single mutable pointer to the version currently in force.
type Template struct {
	ID                 int64
	SheetID            int64
	Name               string
	PublishedVersionID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TemplateVersion is one immutable revision of a template. Once Published
// is set the version is never mutated and cannot be deleted while referenced.
type TemplateVersion struct {
	ID               int64
	TemplateID       int64
	VersionNumber    int
	SlotIntervalMins int
	MinPlayers       int
	MaxStartingLegs  int
	WalkRideMode     WalkRideMode
	DefaultCapacity  int
	Published        bool

	Sides       []TemplateVersionSide
	AccessRules []AccessRule
	Pricing     []PricingRule

	CreatedAt time.Time
}

// TemplateVersionSide maps a version to a side, carrying the reround
// target used to pair the second leg of an 18-hole round.
type TemplateVersionSide struct {
	ID                  int64
	TemplateVersionID   int64
	SideID              int64
	ReroundTargetSideID *int64 // nil = reround continues on the same side
	StartSlotsEnabled   bool
}

// AccessRule controls which booking classes may book a side under this
// version, how far ahead they may book, and the daily release clock.
type AccessRule struct {
	ID                int64
	TemplateVersionID int64
	SideID            int64
	ClassCode         string
	Allowed           bool
	MaxDaysInAdvance  int
	ReleaseTime       *types.TimeString // nil = released at midnight
}

// PricingRule is the per-side, per-class fee schedule in cents.
type PricingRule struct {
	ID                int64
	TemplateVersionID int64
	SideID            int64
	ClassCode         string
	GreensFeeCents    int64
	CartFeeCents      int64
}

// SideMapping returns the version's mapping for a side, or nil.
func (v *TemplateVersion) SideMapping(sideID int64) *TemplateVersionSide {
	for i := range v.Sides {
		if v.Sides[i].SideID == sideID {
			return &v.Sides[i]
		}
	}
	return nil
}

// AccessRuleFor resolves the access rule for (side, class), falling back
// to the generic full-access class when the specific class has no rule.
func (v *TemplateVersion) AccessRuleFor(sideID int64, classCode string) *AccessRule {
	var fallback *AccessRule
	for i := range v.AccessRules {
		rule := &v.AccessRules[i]
		if rule.SideID != sideID {
			continue
		}
		if rule.ClassCode == classCode {
			return rule
		}
		if rule.ClassCode == ClassFull {
			fallback = rule
		}
	}
	return fallback
}

// PricingFor resolves the pricing rule for (side, class) with the same
// full-class fallback as access rules.
func (v *TemplateVersion) PricingFor(sideID int64, classCode string) *PricingRule {
	var fallback *PricingRule
	for i := range v.Pricing {
		rule := &v.Pricing[i]
		if rule.SideID != sideID {
			continue
		}
		if rule.ClassCode == classCode {
			return rule
		}
		if rule.ClassCode == ClassFull {
			fallback = rule
		}
	}
	return fallback
}
