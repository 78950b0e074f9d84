package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (Employee, error)
	GetByScanCode(ctx context.Context, scanCode string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	ExistsByDNI(ctx context.Context, dni string, excludeID *int64) (bool, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	SetScanCode(ctx context.Context, id int64, scanCode string) error
	Update(ctx context.Context, id int64, req UpdateEmployeeRequest) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}
