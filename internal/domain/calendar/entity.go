package calendar

import "time"

// Holiday is one public-holiday date on a company calendar.
type Holiday struct {
	ID        string
	CompanyID string
	Date      time.Time // date only, midnight UTC
	Name      string
	CreatedAt time.Time
}

// DateSet collapses holidays to a YYYY-MM-DD lookup set.
func DateSet(holidays []Holiday) map[string]bool {
	set := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		set[h.Date.Format("2006-01-02")] = true
	}
	return set
}
