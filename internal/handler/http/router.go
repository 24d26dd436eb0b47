package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/opsuite/attendance-backend-go/internal/handler/http/middleware"
	"github.com/opsuite/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	policyHandler PolicyHandler,
	attendanceHandler AttendanceHandler,
	shiftHandler ShiftHandler,
	calendarHandler CalendarHandler,
	timesheetHandler TimesheetHandler,
	previewHandler PreviewHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/policy", func(r chi.Router) {
				r.Get("/my", policyHandler.GetMy)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Put("/my", policyHandler.Replace)
					r.Post("/preview", previewHandler.Run)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/my", attendanceHandler.GetMyEntries)
				r.Post("/{id}/corrections", attendanceHandler.RequestCorrection)

				// Reviewer only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireReviewer)
					r.Get("/", attendanceHandler.List)
					r.Get("/{id}", attendanceHandler.Get)
				})

				r.Route("/corrections", func(r chi.Router) {
					r.Use(middleware.RequireReviewer)
					r.Get("/pending", attendanceHandler.ListPendingCorrections)
					r.Post("/{id}/approve", attendanceHandler.ApproveCorrection)
					r.Post("/{id}/reject", attendanceHandler.RejectCorrection)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.List)
				r.Get("/{id}", shiftHandler.Get)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", shiftHandler.Create)
					r.Patch("/{id}/active", shiftHandler.SetActive)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", calendarHandler.List)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", calendarHandler.Create)
					r.Delete("/{id}", calendarHandler.Delete)
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/my", timesheetHandler.ListMine)
				r.Get("/{id}", timesheetHandler.Get)
				r.Post("/{id}/submit", timesheetHandler.Submit)

				// Reviewer only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireReviewer)
					r.Post("/", timesheetHandler.Generate)
					r.Post("/{id}/approve", timesheetHandler.Approve)
					r.Post("/{id}/reject", timesheetHandler.Reject)
				})
			})
		})
	})
	return r
}
