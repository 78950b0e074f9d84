package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, company_id, full_name, dni, email, phone, is_active, COALESCE(scan_code, ''), created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.FullName, &emp.DNI, &emp.Email, &emp.Phone,
		&emp.IsActive, &emp.ScanCode, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	return scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
}

// GetByScanCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByScanCode(ctx context.Context, scanCode string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	return scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE scan_code = $1`, scanCode))
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	whereClauses := []string{}
	args := []interface{}{}
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		whereClauses = append(whereClauses, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		whereClauses = append(whereClauses, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY full_name, id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEmployees(rows)
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	active := true
	return e.List(ctx, employee.EmployeeFilter{Active: &active})
}

// ExistsByDNI implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByDNI(ctx context.Context, dni string, excludeID *int64) (bool, error) {
	q := GetQuerier(ctx, e.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM employees WHERE dni = $1 AND ($2::BIGINT IS NULL OR id <> $2))`,
		dni, excludeID,
	).Scan(&exists)
	return exists, err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (company_id, full_name, dni, email, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + employeeColumns

	return scanEmployee(q.QueryRow(ctx, query,
		newEmployee.CompanyID, newEmployee.FullName, newEmployee.DNI,
		newEmployee.Email, newEmployee.Phone, newEmployee.IsActive,
	))
}

// SetScanCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SetScanCode(ctx context.Context, id int64, scanCode string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET scan_code = $1, updated_at = NOW() WHERE id = $2`, scanCode, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Update implements employee.EmployeeRepository. An empty email or phone clears the column.
func (e *employeeRepositoryImpl) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, e.db)

	setClauses := []string{}
	args := []interface{}{}
	set := func(col string, val interface{}) {
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.FullName != nil {
		set("full_name", *req.FullName)
	}
	if req.DNI != nil {
		set("dni", *req.DNI)
	}
	if req.Email != nil {
		set("email", nullIfEmpty(*req.Email))
	}
	if req.Phone != nil {
		set("phone", nullIfEmpty(*req.Phone))
	}
	if len(setClauses) == 0 {
		return employee.ErrNoFieldsToUpdate
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	sql := "UPDATE employees SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", len(args))

	var updatedID int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		return fmt.Errorf("failed to update employee with id %d: %w", id, err)
	}
	return nil
}

// SetActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SetActive(ctx context.Context, id int64, active bool) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete implements employee.EmployeeRepository. Attendance and alert rows cascade.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
