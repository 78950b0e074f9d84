package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/report"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// EmployeeStatsByCompany implements report.ReportRepository.
// Hours only count COMPLETE and INCOMPLETE days.
func (r *reportRepositoryImpl) EmployeeStatsByCompany(ctx context.Context, companyID int64, from, to time.Time) ([]report.EmployeeStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id,
			e.full_name,
			e.dni,
			e.is_active,
			COUNT(ar.id) AS total_records,
			COUNT(ar.id) FILTER (WHERE ar.day_state = 'COMPLETE') AS complete_days,
			COUNT(ar.id) FILTER (WHERE ar.day_state = 'INCOMPLETE') AS incomplete_days,
			COUNT(ar.id) FILTER (WHERE ar.day_state = 'ABSENT') AS absent_days,
			COUNT(ar.id) FILTER (WHERE ar.late_morning OR ar.late_afternoon) AS late_days,
			COALESCE(SUM(ar.normal_hours) FILTER (WHERE ar.day_state <> 'ABSENT'), 0)::FLOAT8 AS normal_hours,
			COALESCE(SUM(ar.overtime_hours) FILTER (WHERE ar.day_state <> 'ABSENT'), 0)::FLOAT8 AS overtime_hours,
			COALESCE(SUM(ar.total_hours) FILTER (WHERE ar.day_state <> 'ABSENT'), 0)::FLOAT8 AS total_hours
		FROM employees e
		LEFT JOIN attendance_records ar
			ON ar.employee_id = e.id
			AND ar.work_date BETWEEN $2 AND $3
		WHERE e.company_id = $1
		GROUP BY e.id, e.full_name, e.dni, e.is_active
		ORDER BY e.full_name, e.id
	`

	rows, err := q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee stats: %w", err)
	}
	defer rows.Close()

	stats := []report.EmployeeStats{}
	for rows.Next() {
		var st report.EmployeeStats
		if err := rows.Scan(
			&st.EmployeeID, &st.FullName, &st.DNI, &st.IsActive,
			&st.TotalRecords, &st.CompleteDays, &st.IncompleteDays, &st.AbsentDays, &st.LateDays,
			&st.NormalHours, &st.OvertimeHours, &st.TotalHours,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
