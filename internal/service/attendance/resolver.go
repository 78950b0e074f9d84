package attendance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
	"github.com/jackc/pgx/v5"
)

const fallbackCodePrefix = "EMP_"

// EmployeeResolver maps a scanned code to an employee.
type EmployeeResolver struct {
	employees employee.EmployeeRepository
}

func NewEmployeeResolver(employees employee.EmployeeRepository) *EmployeeResolver {
	return &EmployeeResolver{employees: employees}
}

// Resolve looks the code up by exact scan code first. Codes shaped like
// EMP_<prefix>_<id> then fall back to a lookup by the numeric id.
// It returns nil, nil when nothing matches.
func (r *EmployeeResolver) Resolve(ctx context.Context, code string) (*employee.Employee, error) {
	found, err := r.employees.GetByScanCode(ctx, code)
	if err == nil {
		return &found, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get employee by scan code: %w", err)
	}

	id, ok := parseFallbackID(code)
	if !ok {
		return nil, nil
	}

	found, err = r.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return &found, nil
}

func parseFallbackID(code string) (int64, bool) {
	if !strings.HasPrefix(code, fallbackCodePrefix) {
		return 0, false
	}
	parts := strings.Split(code, "_")
	if len(parts) < 3 {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
