package schedule

import (
	"context"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
)

type ScheduleService interface {
	// Get returns the company's schedule, or the configured default when none is stored.
	Get(ctx context.Context, companyID int64) (ScheduleResponse, error)
	Upsert(ctx context.Context, companyID int64, req UpsertScheduleRequest) (ScheduleResponse, error)

	attendance.ScheduleProvider
}
