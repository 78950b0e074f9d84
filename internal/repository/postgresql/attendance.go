package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, work_date, morning_in, morning_out, afternoon_in, afternoon_out,
	worked_minutes, total_hours, normal_hours, overtime_hours,
	attended_morning, attended_afternoon, late_morning, late_afternoon, day_state,
	created_at, updated_at`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var (
		rec                                          attendance.Record
		morningIn, morningOut, afternoonIn, afterOut pgtype.Time
		dayState                                     string
	)
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.WorkDate, &morningIn, &morningOut, &afternoonIn, &afterOut,
		&rec.WorkedMinutes, &rec.TotalHours, &rec.NormalHours, &rec.OvertimeHours,
		&rec.AttendedMorning, &rec.AttendedAfternoon, &rec.LateMorning, &rec.LateAfternoon, &dayState,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.MorningIn = fromPgTime(morningIn)
	rec.MorningOut = fromPgTime(morningOut)
	rec.AfternoonIn = fromPgTime(afternoonIn)
	rec.AfternoonOut = fromPgTime(afterOut)
	rec.DayState = attendance.DayState(dayState)
	return rec, nil
}

func toPgTime(t *attendance.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: int64(t.Seconds()) * int64(time.Second/time.Microsecond), Valid: true}
}

func fromPgTime(t pgtype.Time) *attendance.TimeOfDay {
	if !t.Valid {
		return nil
	}
	tod := attendance.TimeOfDayFromSeconds(int(t.Microseconds / int64(time.Second/time.Microsecond)))
	return &tod
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rec, err := scanRecord(q.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendance_records WHERE employee_id = $1 AND work_date = $2`,
		employeeID, date,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &rec, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_id, work_date, morning_in, morning_out, afternoon_in, afternoon_out,
			worked_minutes, total_hours, normal_hours, overtime_hours,
			attended_morning, attended_afternoon, late_morning, late_afternoon, day_state
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + attendanceColumns

	return scanRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.WorkDate,
		toPgTime(record.MorningIn), toPgTime(record.MorningOut),
		toPgTime(record.AfternoonIn), toPgTime(record.AfternoonOut),
		record.WorkedMinutes, record.TotalHours, record.NormalHours, record.OvertimeHours,
		record.AttendedMorning, record.AttendedAfternoon, record.LateMorning, record.LateAfternoon,
		string(record.DayState),
	))
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records SET
			morning_in = $1, morning_out = $2, afternoon_in = $3, afternoon_out = $4,
			worked_minutes = $5, total_hours = $6, normal_hours = $7, overtime_hours = $8,
			attended_morning = $9, attended_afternoon = $10, late_morning = $11, late_afternoon = $12,
			day_state = $13, updated_at = NOW()
		WHERE id = $14
	`
	tag, err := q.Exec(ctx, query,
		toPgTime(record.MorningIn), toPgTime(record.MorningOut),
		toPgTime(record.AfternoonIn), toPgTime(record.AfternoonOut),
		record.WorkedMinutes, record.TotalHours, record.NormalHours, record.OvertimeHours,
		record.AttendedMorning, record.AttendedAfternoon, record.LateMorning, record.LateAfternoon,
		string(record.DayState), record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record %d: %w", record.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// LockEmployeeDay implements attendance.AttendanceRepository. It must run
// inside a transaction; the lock is released on commit or rollback.
func (a *attendanceRepository) LockEmployeeDay(ctx context.Context, employeeID int64, date time.Time) error {
	q := GetQuerier(ctx, a.db)

	key := fmt.Sprintf("attendance:%d:%s", employeeID, date.Format("2006-01-02"))
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("failed to lock attendance day: %w", err)
	}
	return nil
}

// CountAbsences implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountAbsences(ctx context.Context, employeeID int64, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, a.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance_records
		WHERE employee_id = $1 AND day_state = $2 AND work_date >= $3 AND work_date < $4
	`, employeeID, string(attendance.DayStateAbsent), from, to).Scan(&count)
	return count, err
}

// ListByEmployeeAndPeriod implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeAndPeriod(ctx context.Context, employeeID int64, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `
		SELECT `+attendanceColumns+` FROM attendance_records
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date
	`, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CreateAbsences implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateAbsences(ctx context.Context, employeeIDs []int64, date time.Time) ([]int64, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `
		INSERT INTO attendance_records (employee_id, work_date, day_state)
		SELECT unnest($1::BIGINT[]), $2::DATE, $3::TEXT
		ON CONFLICT (employee_id, work_date) DO NOTHING
		RETURNING employee_id
	`, employeeIDs, date, string(attendance.DayStateAbsent))
	if err != nil {
		return nil, fmt.Errorf("failed to create absences: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}
