package policy

import "errors"

// Policy domain errors
var (
	ErrPolicyNotFound   = errors.New("attendance policy not found for this company")
	ErrNoActiveRule     = errors.New("overtime policy has no active rule")
	ErrOvertimeDisabled = errors.New("overtime policy is disabled")
	ErrRuleNotFound     = errors.New("overtime rule not found")
)
