package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/asistencia-qr/attendance-backend-go/internal/config"
	"github.com/asistencia-qr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Company    CompanyHandler
	Schedule   ScheduleHandler
	Employee   EmployeeHandler
	Report     ReportHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "asistencia-qr"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  logLevel(cfg.App.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Kiosk endpoint, no authentication
	r.With(
		middleware.RateLimitByIP(rate.Limit(cfg.Attendance.ScanRatePerSecond), cfg.Attendance.ScanRateBurst),
	).Post("/api/scan", h.Attendance.Scan)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Requires an administrator token
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, middleware.TokenFromQuery))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.AdminOnly)

			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", h.Company.List)
				r.Post("/", h.Company.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Company.GetByID)
					r.Put("/", h.Company.Update)
					r.Delete("/", h.Company.Delete)
					r.Get("/schedule", h.Schedule.Get)
					r.Put("/schedule", h.Schedule.Upsert)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Post("/", h.Employee.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Employee.GetByID)
					r.Put("/", h.Employee.Update)
					r.Delete("/", h.Employee.Delete)
					r.Post("/toggle", h.Employee.ToggleActive)
					r.Get("/qr", h.Employee.QRCode)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/monthly", h.Report.Monthly)
				r.Get("/employee/{id}", h.Report.Employee)
				r.Get("/export/excel", h.Report.ExportExcel)
			})

			r.Get("/scans/stream", h.Attendance.Stream)

			if cfg.Storage.Type == "local" {
				r.Handle("/uploads/*", http.StripPrefix("/api/v1/uploads/", http.FileServer(http.Dir(cfg.Storage.BasePath))))
			}
		})
	})
	return r
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
