package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// Register creates an employee and assigns its scan code EMP_<company code>_<id>
	Register(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	GetByID(ctx context.Context, id int64) (EmployeeResponse, error)
	List(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)
	Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// ToggleActive flips the active flag; inactive employees cannot clock in
	ToggleActive(ctx context.Context, id int64) (EmployeeResponse, error)

	// Delete removes the employee together with its attendance history
	Delete(ctx context.Context, id int64) error

	// QRCode renders the employee's scan code as a PNG and stores a copy
	QRCode(ctx context.Context, id int64) (QRCodeResponse, error)
}
