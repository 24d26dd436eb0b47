package engine

import "errors"

// Engine validation errors. These are surfaced to the caller, never silently
// corrected; configuration errors (missing rule, disabled overtime) live in
// the policy domain package since PrimaryRule reports them.
var (
	ErrClockOutBeforeClockIn   = errors.New("clock-out is before clock-in and the shift does not cross midnight")
	ErrNegativeMinutes         = errors.New("minute value must not be negative")
	ErrInvalidRoundingInterval = errors.New("rounding interval must be greater than 0")
	ErrTierOrder               = errors.New("tier-2 threshold must be greater than tier-1 threshold")
	ErrInvalidMultiplier       = errors.New("rate multiplier must be at least 1.0")
	ErrEntryOpen               = errors.New("entry has no clock-out yet")
)
