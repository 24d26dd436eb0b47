package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/opsuite/attendance-backend-go/internal/domain/calendar"
	"github.com/opsuite/attendance-backend-go/internal/pkg/validator"
)

type CalendarServiceImpl struct {
	calendar.HolidayRepository
}

func NewCalendarService(holidayRepo calendar.HolidayRepository) calendar.CalendarService {
	return &CalendarServiceImpl{HolidayRepository: holidayRepo}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

func toHolidayResponse(h calendar.Holiday) calendar.HolidayResponse {
	return calendar.HolidayResponse{
		ID:   h.ID,
		Date: h.Date.Format("2006-01-02"),
		Name: h.Name,
	}
}

// CreateHoliday implements calendar.CalendarService.
func (s *CalendarServiceImpl) CreateHoliday(ctx context.Context, req calendar.CreateHolidayRequest) (calendar.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return calendar.HolidayResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return calendar.HolidayResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	created, err := s.HolidayRepository.Create(ctx, calendar.Holiday{
		CompanyID: companyID,
		Date:      date,
		Name:      req.Name,
	})
	if err != nil {
		return calendar.HolidayResponse{}, err
	}

	return toHolidayResponse(created), nil
}

// ListHolidays implements calendar.CalendarService. An empty range defaults to
// the current calendar year.
func (s *CalendarServiceImpl) ListHolidays(ctx context.Context, start, end string) ([]calendar.HolidayResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startDate := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)

	if start != "" {
		parsed, valid := validator.IsValidDate(start)
		if !valid {
			return nil, validator.ValidationErrors{{Field: "start", Message: "start must be in YYYY-MM-DD format"}}
		}
		startDate = parsed
	}
	if end != "" {
		parsed, valid := validator.IsValidDate(end)
		if !valid {
			return nil, validator.ValidationErrors{{Field: "end", Message: "end must be in YYYY-MM-DD format"}}
		}
		endDate = parsed
	}

	holidays, err := s.HolidayRepository.ListRange(ctx, companyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	responses := make([]calendar.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, toHolidayResponse(h))
	}
	return responses, nil
}

// DeleteHoliday implements calendar.CalendarService.
func (s *CalendarServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return err
	}

	return s.HolidayRepository.Delete(ctx, id, companyID)
}
