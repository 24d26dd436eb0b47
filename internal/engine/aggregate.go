package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/opsuite/attendance-backend-go/internal/domain/policy"
)

// WeekTotals sums one ISO week inside a timesheet period. A period spanning a
// month boundary still groups by ISO week, so a Wednesday-ending month splits
// its last week across two timesheets without double counting.
type WeekTotals struct {
	ISOYear          int
	ISOWeek          int
	RegularMinutes   int
	OTTier1Minutes   int
	OTTier2Minutes   int
	WeeklyCapApplied bool
}

// TimesheetTotals is the aggregation of a period's daily results: the
// per-day rows after weekly capping, the per-week sums, and the period totals.
type TimesheetTotals struct {
	Days             []OTResult
	Weeks            []WeekTotals
	RegularMinutes   int
	OTTier1Minutes   int
	OTTier2Minutes   int
	WeeklyCapApplied bool
}

// Aggregate groups daily results by ISO week, applies the weekly overtime cap
// per week, and sums the period. Days are not mutated in place; the returned
// rows carry the post-cap minutes. The weekly cap truncates whole-week excess
// from individual days per the policy's strategy, newest days first by
// default, so the earliest overtime worked is the last to be cut.
func Aggregate(days []OTResult, o policy.OvertimePolicy) TimesheetTotals {
	out := TimesheetTotals{Days: make([]OTResult, len(days))}
	copy(out.Days, days)

	sort.SliceStable(out.Days, func(i, j int) bool {
		return out.Days[i].Date.Before(out.Days[j].Date)
	})

	weekIndex := make(map[string]int)
	weekDays := make(map[string][]int) // week key -> indices into out.Days, date-ascending
	for i, day := range out.Days {
		key := isoWeekKey(day.Date)
		if _, ok := weekIndex[key]; !ok {
			isoYear, isoWeek := day.Date.ISOWeek()
			weekIndex[key] = len(out.Weeks)
			out.Weeks = append(out.Weeks, WeekTotals{ISOYear: isoYear, ISOWeek: isoWeek})
		}
		weekDays[key] = append(weekDays[key], i)
	}

	capMinutes := 0
	if o.MaxOTPerWeekHours > 0 {
		capMinutes = int(o.MaxOTPerWeekHours * 60)
	}

	for key, idx := range weekIndex {
		week := &out.Weeks[idx]
		indices := weekDays[key]

		overtime := 0
		for _, i := range indices {
			week.RegularMinutes += out.Days[i].RegularMinutes
			overtime += out.Days[i].OTTier1Minutes + out.Days[i].OTTier2Minutes
		}

		if capMinutes > 0 && overtime > capMinutes {
			week.WeeklyCapApplied = true
			out.WeeklyCapApplied = true
			truncateWeek(out.Days, indices, overtime-capMinutes, o.WeeklyCapStrategy)
		}

		for _, i := range indices {
			week.OTTier1Minutes += out.Days[i].OTTier1Minutes
			week.OTTier2Minutes += out.Days[i].OTTier2Minutes
		}
	}

	sort.SliceStable(out.Weeks, func(i, j int) bool {
		if out.Weeks[i].ISOYear != out.Weeks[j].ISOYear {
			return out.Weeks[i].ISOYear < out.Weeks[j].ISOYear
		}
		return out.Weeks[i].ISOWeek < out.Weeks[j].ISOWeek
	})

	for _, week := range out.Weeks {
		out.RegularMinutes += week.RegularMinutes
		out.OTTier1Minutes += week.OTTier1Minutes
		out.OTTier2Minutes += week.OTTier2Minutes
	}
	return out
}

// truncateWeek removes excess overtime minutes from the week's days in the
// configured order, cutting tier-2 before tier-1 within each day. Days that
// lose minutes are marked Capped so the truncation shows up on the entry.
func truncateWeek(days []OTResult, indices []int, excess int, strategy policy.WeeklyCapStrategy) {
	ordered := make([]int, len(indices))
	copy(ordered, indices)
	if strategy != policy.CapOldestFirst {
		// newest_first: walk the week backwards.
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	for _, i := range ordered {
		if excess == 0 {
			return
		}
		day := &days[i]

		if day.OTTier2Minutes > 0 {
			cut := min(day.OTTier2Minutes, excess)
			day.OTTier2Minutes -= cut
			excess -= cut
			day.Capped = true
		}
		if excess > 0 && day.OTTier1Minutes > 0 {
			cut := min(day.OTTier1Minutes, excess)
			day.OTTier1Minutes -= cut
			excess -= cut
			day.Capped = true
		}
	}
}

func isoWeekKey(date time.Time) string {
	year, week := date.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
