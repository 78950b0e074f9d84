package report

import (
	"context"
	"time"
)

// EmployeeStats aggregates one employee's attendance records over a period.
type EmployeeStats struct {
	EmployeeID     int64
	FullName       string
	DNI            string
	IsActive       bool
	TotalRecords   int
	CompleteDays   int
	IncompleteDays int
	AbsentDays     int
	LateDays       int
	NormalHours    float64
	OvertimeHours  float64
	TotalHours     float64
}

type ReportRepository interface {
	// EmployeeStatsByCompany returns one row per employee of the company,
	// including employees without records in [from, to].
	EmployeeStatsByCompany(ctx context.Context, companyID int64, from, to time.Time) ([]EmployeeStats, error)
}
