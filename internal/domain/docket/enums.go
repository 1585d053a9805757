package docket

import "github.com/turtacn/LexDocket/pkg/errors"

// ─────────────────────────────────────────────────────────────────────────────
// Counting methods
// ─────────────────────────────────────────────────────────────────────────────

// CountingMethod is the day-skipping discipline used when advancing a date.
type CountingMethod string

const (
	// CountingCalendar counts every day; only the final landing day is shifted
	// off non-judicial days.
	CountingCalendar CountingMethod = "CALENDAR"
	// CountingBusiness skips weekends while counting.
	CountingBusiness CountingMethod = "BUSINESS"
	// CountingCourt skips weekends and holidays while counting.
	CountingCourt CountingMethod = "COURT"
	// CountingRetrograde counts backward from the trigger, skipping weekends
	// and holidays.  Used for "N days before event" rules.
	CountingRetrograde CountingMethod = "RETROGRADE"
)

// ParseCountingMethod validates and converts a raw string.
func ParseCountingMethod(s string) (CountingMethod, error) {
	m := CountingMethod(s)
	if !m.Valid() {
		return "", errors.Newf(errors.ErrCodeValidation, "unknown counting method %q", s)
	}
	return m, nil
}

// Valid reports whether m is a recognized counting method.
func (m CountingMethod) Valid() bool {
	switch m {
	case CountingCalendar, CountingBusiness, CountingCourt, CountingRetrograde:
		return true
	}
	return false
}

func (m CountingMethod) String() string { return string(m) }

// ─────────────────────────────────────────────────────────────────────────────
// Service methods
// ─────────────────────────────────────────────────────────────────────────────

// ServiceMethod is the way notice of the triggering event was delivered.
type ServiceMethod string

const (
	ServicePersonal       ServiceMethod = "PERSONAL"
	ServiceCertifiedMail  ServiceMethod = "CERTIFIED_MAIL"
	ServiceFirstClassMail ServiceMethod = "FIRST_CLASS_MAIL"
	ServiceElectronic     ServiceMethod = "ELECTRONIC"
)

// ParseServiceMethod validates and converts a raw string.
func ParseServiceMethod(s string) (ServiceMethod, error) {
	m := ServiceMethod(s)
	if !m.Valid() {
		return "", errors.Newf(errors.ErrCodeValidation, "unknown service method %q", s)
	}
	return m, nil
}

// Valid reports whether m is a recognized service method.
func (m ServiceMethod) Valid() bool {
	switch m {
	case ServicePersonal, ServiceCertifiedMail, ServiceFirstClassMail, ServiceElectronic:
		return true
	}
	return false
}

func (m ServiceMethod) String() string { return string(m) }

// ─────────────────────────────────────────────────────────────────────────────
// Priorities
// ─────────────────────────────────────────────────────────────────────────────

// Priority classifies the consequence of missing a deadline.
type Priority string

const (
	PriorityFatal         Priority = "fatal"
	PriorityCritical      Priority = "critical"
	PriorityImportant     Priority = "important"
	PriorityStandard      Priority = "standard"
	PriorityInformational Priority = "informational"
)

// ParsePriority validates and converts a raw string.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", errors.Newf(errors.ErrCodeValidation, "unknown priority %q", s)
	}
	return p, nil
}

// Valid reports whether p is a recognized priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityFatal, PriorityCritical, PriorityImportant, PriorityStandard, PriorityInformational:
		return true
	}
	return false
}

// Rank orders priorities from most to least severe, for sorting.
func (p Priority) Rank() int {
	switch p {
	case PriorityFatal:
		return 0
	case PriorityCritical:
		return 1
	case PriorityImportant:
		return 2
	case PriorityStandard:
		return 3
	case PriorityInformational:
		return 4
	}
	return 5
}

func (p Priority) String() string { return string(p) }

// ─────────────────────────────────────────────────────────────────────────────
// Lifecycle statuses
// ─────────────────────────────────────────────────────────────────────────────

// TriggerStatus is the lifecycle state of a trigger event.
type TriggerStatus string

const (
	TriggerPending   TriggerStatus = "pending"
	TriggerActive    TriggerStatus = "active"
	TriggerCompleted TriggerStatus = "completed"
	TriggerCancelled TriggerStatus = "cancelled"
)

// Valid reports whether s is a recognized trigger status.
func (s TriggerStatus) Valid() bool {
	switch s {
	case TriggerPending, TriggerActive, TriggerCompleted, TriggerCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s TriggerStatus) Terminal() bool {
	return s == TriggerCompleted || s == TriggerCancelled
}

func (s TriggerStatus) String() string { return string(s) }

// DeadlineStatus is the lifecycle state of a computed deadline.
type DeadlineStatus string

const (
	DeadlinePending   DeadlineStatus = "pending"
	DeadlineCompleted DeadlineStatus = "completed"
	DeadlineCancelled DeadlineStatus = "cancelled"
)

// Valid reports whether s is a recognized deadline status.
func (s DeadlineStatus) Valid() bool {
	switch s {
	case DeadlinePending, DeadlineCompleted, DeadlineCancelled:
		return true
	}
	return false
}

func (s DeadlineStatus) String() string { return string(s) }
