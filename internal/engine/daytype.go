package engine

import (
	"time"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
)

// DayType classifies a calendar date for rate purposes.
type DayType string

const (
	DayNormal        DayType = "normal"
	DayRestDay       DayType = "rest_day"
	DayPublicHoliday DayType = "public_holiday"
)

// HolidayCalendar answers whether a date is a public holiday on the
// organization's calendar. Implementations must be deterministic per date so
// classification can be cached.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// HolidaySet is a prefetched HolidayCalendar keyed by YYYY-MM-DD, used for
// bulk computation where one query covers the whole range.
type HolidaySet map[string]bool

func (s HolidaySet) IsHoliday(date time.Time) bool {
	return s[date.Format("2006-01-02")]
}

// DayClassifier resolves a date to its day type using the policy's workday
// set and the injected holiday calendar. Pure function of (date, policy,
// calendar); holidays take precedence over rest days.
type DayClassifier struct {
	workdays map[time.Weekday]bool
	holidays HolidayCalendar
}

func NewDayClassifier(p policy.AttendancePolicy, holidays HolidayCalendar) *DayClassifier {
	return &DayClassifier{
		workdays: p.WorkdaySet(),
		holidays: holidays,
	}
}

func (c *DayClassifier) Classify(date time.Time) DayType {
	if c.holidays != nil && c.holidays.IsHoliday(date) {
		return DayPublicHoliday
	}
	if !c.workdays[date.Weekday()] {
		return DayRestDay
	}
	return DayNormal
}
