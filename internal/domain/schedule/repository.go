package schedule

import "context"

type StandardScheduleRepository interface {
	GetByCompanyID(ctx context.Context, companyID int64) (StandardSchedule, error)
	Upsert(ctx context.Context, s StandardSchedule) (StandardSchedule, error)
}
