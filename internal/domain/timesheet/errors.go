package timesheet

import "errors"

// Timesheet domain errors
var (
	ErrRecordNotFound      = errors.New("timesheet record not found")
	ErrInvalidTransition   = errors.New("timesheet status transition not allowed")
	ErrPeriodOverlap       = errors.New("a timesheet already exists for this period")
	ErrNoEntriesInPeriod   = errors.New("no closed attendance entries in the requested period")
	ErrAlreadyProcessed    = errors.New("timesheet has already been approved or rejected")
	ErrNotRecordOwner      = errors.New("only the timesheet owner can submit it")
	ErrReviewerIsSubmitter = errors.New("a timesheet cannot be reviewed by its own submitter")
)
