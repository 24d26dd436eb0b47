package user

import "errors"

// Access control errors
var (
	ErrInvalidToken           = errors.New("invalid or missing token")
	ErrManagerAccessRequired  = errors.New("manager access required")
	ErrReviewerAccessRequired = errors.New("reviewer access required")
)
