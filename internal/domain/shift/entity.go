package shift

import "time"

// Shift is a named working window employees can be assigned to. Start and end
// are clock times ("15:04"); entries referencing a shift keep working even if
// it is later disabled, so shifts are soft-disabled rather than deleted.
type Shift struct {
	ID                   string
	CompanyID            string
	Name                 string
	StartTime            string // HH:MM
	EndTime              string // HH:MM
	BreakMinutes         int
	GraceOverrideMinutes *int
	AllowCrossMidnight   bool
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func clockToMinutes(clock string) int {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// StartMinutes returns the shift start as minutes after midnight.
func (s *Shift) StartMinutes() int {
	return clockToMinutes(s.StartTime)
}

// EndMinutes returns the shift end as minutes after midnight. For
// cross-midnight shifts this is smaller than StartMinutes.
func (s *Shift) EndMinutes() int {
	return clockToMinutes(s.EndTime)
}

// ExpectedWorkMinutes is the scheduled span minus the break.
func (s *Shift) ExpectedWorkMinutes() int {
	span := s.EndMinutes() - s.StartMinutes()
	if span <= 0 && s.AllowCrossMidnight {
		span += 24 * 60
	}
	if span < 0 {
		span = 0
	}
	expected := span - s.BreakMinutes
	if expected < 0 {
		return 0
	}
	return expected
}

// GraceMinutes resolves the shift override against the policy default.
func (s *Shift) GraceMinutes(policyDefault int) int {
	if s.GraceOverrideMinutes != nil {
		return *s.GraceOverrideMinutes
	}
	return policyDefault
}
