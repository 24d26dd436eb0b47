package calendar

import "context"

// CalendarService defines business logic for the company holiday calendar
type CalendarService interface {
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)

	// ListHolidays retrieves holidays with date in [start, end], YYYY-MM-DD
	ListHolidays(ctx context.Context, start, end string) ([]HolidayResponse, error)

	DeleteHoliday(ctx context.Context, id string) error
}
