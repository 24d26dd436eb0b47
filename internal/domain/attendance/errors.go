package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in errors
	ErrAlreadyClockedIn   = errors.New("you already have an open attendance entry")
	ErrShiftRequired      = errors.New("a shift assignment is required to clock in")
	ErrNotClockedIn       = errors.New("you have not clocked in yet")
	ErrClockOutNotAllowed = errors.New("clock-out without a prior clock-in is not allowed")

	// General errors
	ErrEntryNotFound = errors.New("attendance entry not found")
	ErrUnauthorized  = errors.New("unauthorized to access this attendance entry")

	// Correction errors
	ErrCorrectionNotFound         = errors.New("correction request not found")
	ErrCorrectionAlreadyProcessed = errors.New("correction request has already been reviewed")
	ErrCorrectionNotOwned         = errors.New("only the entry owner or a manager can request a correction")
)
