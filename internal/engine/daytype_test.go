package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
)

func classifierPolicy() policy.AttendancePolicy {
	return policy.AttendancePolicy{
		Workdays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
	}
}

func TestDayClassifier_Classify(t *testing.T) {
	t.Parallel()

	holidays := HolidaySet{"2026-03-11": true, "2026-03-15": true}
	classifier := NewDayClassifier(classifierPolicy(), holidays)

	tests := []struct {
		name string
		date string
		want DayType
	}{
		{"workday", "2026-03-09", DayNormal},
		{"saturday is rest day", "2026-03-14", DayRestDay},
		{"sunday is rest day", "2026-03-22", DayRestDay},
		{"holiday on workday", "2026-03-11", DayPublicHoliday},
		{"holiday beats rest day", "2026-03-15", DayPublicHoliday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := time.Parse("2006-01-02", tt.date)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, classifier.Classify(date))
		})
	}
}

func TestDayClassifier_NilCalendar(t *testing.T) {
	t.Parallel()

	classifier := NewDayClassifier(classifierPolicy(), nil)
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, DayNormal, classifier.Classify(monday))
}

func TestDayClassifier_SixDayWeek(t *testing.T) {
	t.Parallel()

	p := policy.AttendancePolicy{
		Workdays: []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"},
	}
	classifier := NewDayClassifier(p, HolidaySet{})

	saturday := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, DayNormal, classifier.Classify(saturday))
	assert.Equal(t, DayRestDay, classifier.Classify(sunday))
}
