package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/opsuite/attendance-backend-go/internal/config"
	appHTTP "github.com/opsuite/attendance-backend-go/internal/handler/http"
	"github.com/opsuite/attendance-backend-go/internal/pkg/cron"
	"github.com/opsuite/attendance-backend-go/internal/pkg/database"
	"github.com/opsuite/attendance-backend-go/internal/pkg/jwt"
	"github.com/opsuite/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/opsuite/attendance-backend-go/internal/service/attendance"
	calendarService "github.com/opsuite/attendance-backend-go/internal/service/calendar"
	policyService "github.com/opsuite/attendance-backend-go/internal/service/policy"
	previewService "github.com/opsuite/attendance-backend-go/internal/service/preview"
	shiftService "github.com/opsuite/attendance-backend-go/internal/service/shift"
	timesheetService "github.com/opsuite/attendance-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	entryRepo := postgresql.NewEntryRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	policyRepo := postgresql.NewPolicyRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	policySvc := policyService.NewPolicyService(policyRepo)
	shiftSvc := shiftService.NewShiftService(shiftRepo)
	calendarSvc := calendarService.NewCalendarService(holidayRepo)
	entrySvc := attendanceService.NewEntryService(
		db,
		entryRepo,
		correctionRepo,
		policyRepo,
		shiftRepo,
		holidayRepo,
		employeeRepo,
	)
	timesheetSvc := timesheetService.NewRecordService(
		timesheetRepo,
		entryRepo,
		policyRepo,
		holidayRepo,
		employeeRepo,
	)
	previewSvc := previewService.NewPreviewService(
		entryRepo,
		shiftRepo,
		employeeRepo,
		holidayRepo,
	)

	policyHandler := appHTTP.NewPolicyHandler(policySvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(entrySvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	previewHandler := appHTTP.NewPreviewHandler(previewSvc)

	router := appHTTP.NewRouter(
		jwtService,
		policyHandler,
		attendanceHandler,
		shiftHandler,
		calendarHandler,
		timesheetHandler,
		previewHandler,
	)

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		jobs := cron.NewAttendanceJobs(entryRepo, employeeRepo, policyRepo, shiftRepo, holidayRepo)
		jobs.RegisterJobs(scheduler, time.Duration(cfg.Cron.IntervalMinutes)*time.Minute)
		scheduler.Start()
		defer scheduler.Stop()
	}

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
