package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/config"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	appHTTP "github.com/asistencia-qr/attendance-backend-go/internal/handler/http"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/cron"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/email"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/jwt"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/sse"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/storage"
	"github.com/asistencia-qr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/asistencia-qr/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/asistencia-qr/attendance-backend-go/internal/service/auth"
	serviceCompany "github.com/asistencia-qr/attendance-backend-go/internal/service/company"
	employeeService "github.com/asistencia-qr/attendance-backend-go/internal/service/employee"
	"github.com/asistencia-qr/attendance-backend-go/internal/service/file"
	reportService "github.com/asistencia-qr/attendance-backend-go/internal/service/report"
	scheduleService "github.com/asistencia-qr/attendance-backend-go/internal/service/schedule"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// run wires and serves until SIGINT/SIGTERM. Startup failures are returned
// after the deferred closes of whatever was already opened.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	loc := cfg.Location()

	defaultSchedule, err := parseDefaultSchedule(cfg.Attendance)
	if err != nil {
		return fmt.Errorf("invalid default schedule: %w", err)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	transactor := postgresql.NewTransactor(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	scanLogRepo := postgresql.NewScanLogRepository(db)
	alertRepo := postgresql.NewSentAlertRepository(db)
	standardScheduleRepo := postgresql.NewStandardScheduleRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}
	hub := sse.NewHub()

	authService := serviceAuth.NewAuthService(cfg.Admin, JWTService)
	companyService := serviceCompany.NewCompanyService(companyRepo)
	scheduleService := scheduleService.NewScheduleService(standardScheduleRepo, companyRepo, defaultSchedule)
	employeeService := employeeService.NewEmployeeService(transactor, employeeRepo, companyRepo, fileService)
	reportService := reportService.NewReportService(reportRepo, attendanceRepo, employeeRepo, companyRepo, nil)

	alerter := attendanceService.NewAbsenceAlerter(
		attendanceRepo,
		alertRepo,
		employeeRepo,
		companyRepo,
		emailService,
		attendanceService.AlertPolicy{
			Threshold:  cfg.Attendance.AbsenceThreshold,
			WindowDays: cfg.Attendance.AbsenceWindowDays,
			Location:   loc,
		},
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		scanLogRepo,
		employeeRepo,
		scheduleService,
		alerter,
		hub,
		attendanceService.Policy{
			DedupWindow:          cfg.Attendance.DedupWindow,
			StandardDailyMinutes: cfg.Attendance.StandardDailyMinutes,
			Location:             loc,
		},
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, employeeRepo, alerter, loc, nil).RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, hub),
		Company:    appHTTP.NewCompanyHandler(companyService),
		Schedule:   appHTTP.NewScheduleHandler(scheduleService),
		Employee:   appHTTP.NewEmployeeHandler(employeeService),
		Report:     appHTTP.NewReportHandler(reportService, nil),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}

	scheduler.Stop()
	attendanceSvc.Wait()
	slog.Info("Server stopped")
	return runErr
}

func parseDefaultSchedule(cfg config.AttendanceConfig) (attendance.Schedule, error) {
	morningIn, err := attendance.ParseTimeOfDay(cfg.MorningExpectedIn)
	if err != nil {
		return attendance.Schedule{}, fmt.Errorf("MORNING_EXPECTED_IN: %w", err)
	}
	afternoonIn, err := attendance.ParseTimeOfDay(cfg.AfternoonExpectedIn)
	if err != nil {
		return attendance.Schedule{}, fmt.Errorf("AFTERNOON_EXPECTED_IN: %w", err)
	}
	cutoff, err := attendance.ParseTimeOfDay(cfg.MorningCutoff)
	if err != nil {
		return attendance.Schedule{}, fmt.Errorf("MORNING_CUTOFF: %w", err)
	}
	return attendance.Schedule{
		MorningExpectedIn:   morningIn,
		AfternoonExpectedIn: afternoonIn,
		MorningCutoff:       cutoff,
	}, nil
}
