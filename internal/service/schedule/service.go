package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/company"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/schedule"
	"github.com/jackc/pgx/v5"
)

type scheduleServiceImpl struct {
	scheduleRepo schedule.StandardScheduleRepository
	companyRepo  company.CompanyRepository
	defaults     attendance.Schedule
}

// NewScheduleService returns a service that falls back to defaults for
// companies without a stored schedule.
func NewScheduleService(scheduleRepo schedule.StandardScheduleRepository, companyRepo company.CompanyRepository, defaults attendance.Schedule) schedule.ScheduleService {
	return &scheduleServiceImpl{
		scheduleRepo: scheduleRepo,
		companyRepo:  companyRepo,
		defaults:     defaults,
	}
}

// ForCompany implements attendance.ScheduleProvider.
func (s *scheduleServiceImpl) ForCompany(ctx context.Context, companyID int64) (attendance.Schedule, error) {
	stored, err := s.scheduleRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.defaults, nil
		}
		return attendance.Schedule{}, fmt.Errorf("failed to get standard schedule: %w", err)
	}
	return stored.ToAttendance(), nil
}

// Get implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Get(ctx context.Context, companyID int64) (schedule.ScheduleResponse, error) {
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	stored, err := s.scheduleRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.NewScheduleResponse(companyID, s.defaults, true), nil
		}
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to get standard schedule: %w", err)
	}
	return schedule.NewScheduleResponse(companyID, stored.ToAttendance(), false), nil
}

// Upsert implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Upsert(ctx context.Context, companyID int64, req schedule.UpsertScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	parsed, err := req.ToSchedule()
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	saved, err := s.scheduleRepo.Upsert(ctx, schedule.StandardSchedule{
		CompanyID:           companyID,
		MorningExpectedIn:   parsed.MorningExpectedIn,
		AfternoonExpectedIn: parsed.AfternoonExpectedIn,
		MorningCutoff:       parsed.MorningCutoff,
	})
	if err != nil {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to save standard schedule: %w", err)
	}

	slog.Info("standard schedule updated", "company_id", companyID,
		"morning_in", saved.MorningExpectedIn.String(),
		"afternoon_in", saved.AfternoonExpectedIn.String(),
		"cutoff", saved.MorningCutoff.String())
	return schedule.NewScheduleResponse(companyID, saved.ToAttendance(), false), nil
}

func (s *scheduleServiceImpl) ensureCompany(ctx context.Context, companyID int64) error {
	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.ErrCompanyNotFound
		}
		return fmt.Errorf("failed to get company by ID: %w", err)
	}
	return nil
}
