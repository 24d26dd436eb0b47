package shift

import "errors"

// Shift domain errors
var (
	ErrShiftNotFound   = errors.New("shift not found")
	ErrShiftNameExists = errors.New("a shift with this name already exists")
	ErrShiftInactive   = errors.New("shift is disabled")
)
