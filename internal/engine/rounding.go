package engine

import (
	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
)

// Round snaps a minute figure to the policy's rounding interval. Pure integer
// arithmetic; idempotent for every mode.
func Round(minutes int, mode policy.RoundingMode, intervalMinutes int) (int, error) {
	if minutes < 0 {
		return 0, ErrNegativeMinutes
	}
	if mode == policy.RoundingNone || mode == "" {
		return minutes, nil
	}
	if intervalMinutes <= 0 {
		return 0, ErrInvalidRoundingInterval
	}

	quotient := minutes / intervalMinutes
	remainder := minutes % intervalMinutes

	switch mode {
	case policy.RoundingDown:
		// employer-favoring
		return quotient * intervalMinutes, nil
	case policy.RoundingUp:
		// employee-favoring
		if remainder > 0 {
			quotient++
		}
		return quotient * intervalMinutes, nil
	case policy.RoundingNearest:
		// ties round up
		if remainder*2 >= intervalMinutes {
			quotient++
		}
		return quotient * intervalMinutes, nil
	default:
		return minutes, nil
	}
}
