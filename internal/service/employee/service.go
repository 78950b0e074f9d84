package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/company"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/qrcode"
	"github.com/asistencia-qr/attendance-backend-go/internal/service/file"
	"github.com/jackc/pgx/v5"
)

type EmployeeServiceImpl struct {
	transactor   database.Transactor
	employeeRepo employee.EmployeeRepository
	companyRepo  company.CompanyRepository
	fileService  file.FileService
}

func NewEmployeeService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	fileService file.FileService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		transactor:   transactor,
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		fileService:  fileService,
	}
}

// ScanCodeFor builds the code printed on an employee's badge.
func ScanCodeFor(companyCode string, employeeID int64) string {
	return fmt.Sprintf("EMP_%s_%d", companyCode, employeeID)
}

// Register implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Register(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	companyData, err := s.getCompany(ctx, req.CompanyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByDNI(ctx, req.DNI, nil)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check DNI: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrDNIExists
	}

	var created employee.Employee
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = s.employeeRepo.Create(txCtx, employee.Employee{
			CompanyID: req.CompanyID,
			FullName:  req.FullName,
			DNI:       req.DNI,
			Email:     nonEmpty(req.Email),
			Phone:     nonEmpty(req.Phone),
			IsActive:  true,
		})
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}

		created.ScanCode = ScanCodeFor(companyData.Code, created.ID)
		if err := s.employeeRepo.SetScanCode(txCtx, created.ID, created.ScanCode); err != nil {
			return fmt.Errorf("failed to assign scan code: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee registered", "employee_id", created.ID, "company_id", created.CompanyID, "scan_code", created.ScanCode)
	return employee.NewEmployeeResponse(created, companyData.Name), nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	emp, err := s.getEmployee(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp, s.companyName(ctx, emp.CompanyID)), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	companies, err := s.companyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	names := make(map[int64]string, len(companies))
	for _, c := range companies {
		names[c.ID] = c.Name
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.NewEmployeeResponse(emp, names[emp.CompanyID]))
	}
	return responses, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.DNI != nil {
		exists, err := s.employeeRepo.ExistsByDNI(ctx, *req.DNI, &id)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check DNI: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrDNIExists
		}
	}

	if err := s.employeeRepo.Update(ctx, id, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return s.GetByID(ctx, id)
}

// ToggleActive implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ToggleActive(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	emp, err := s.getEmployee(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.SetActive(ctx, id, !emp.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to toggle employee status: %w", err)
	}
	slog.Info("employee status changed", "employee_id", id, "active", !emp.IsActive)

	return s.GetByID(ctx, id)
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	slog.Info("employee deleted", "employee_id", id)
	return nil
}

// QRCode implements employee.EmployeeService.
// A failed upload is logged and the image is still returned.
func (s *EmployeeServiceImpl) QRCode(ctx context.Context, id int64) (employee.QRCodeResponse, error) {
	emp, err := s.getEmployee(ctx, id)
	if err != nil {
		return employee.QRCodeResponse{}, err
	}
	companyData, err := s.getCompany(ctx, emp.CompanyID)
	if err != nil {
		return employee.QRCodeResponse{}, err
	}

	scanCode := emp.ScanCode
	if scanCode == "" {
		scanCode = ScanCodeFor(companyData.Code, emp.ID)
		if err := s.employeeRepo.SetScanCode(ctx, emp.ID, scanCode); err != nil {
			return employee.QRCodeResponse{}, fmt.Errorf("failed to assign scan code: %w", err)
		}
	}

	content, err := qrcode.GenerateWithLabel(scanCode, emp.FullName, qrcode.DefaultSize)
	if err != nil {
		return employee.QRCodeResponse{}, fmt.Errorf("failed to generate qr code: %w", err)
	}

	resp := employee.QRCodeResponse{
		Filename: fmt.Sprintf("qr_empleado_%d_%s.png", emp.ID, companyData.Code),
		Content:  content,
	}
	if s.fileService != nil {
		path, err := s.fileService.UploadEmployeeQR(ctx, companyData.Code, emp.ID, content)
		if err != nil {
			slog.Warn("failed to store qr image", "employee_id", emp.ID, "error", err)
		} else {
			resp.Path = path
			resp.URL = s.fileService.GetFileURL(path)
		}
	}
	return resp, nil
}

func (s *EmployeeServiceImpl) getEmployee(ctx context.Context, id int64) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	return emp, nil
}

func (s *EmployeeServiceImpl) getCompany(ctx context.Context, id int64) (company.Company, error) {
	companyData, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company by ID: %w", err)
	}
	return companyData, nil
}

func (s *EmployeeServiceImpl) companyName(ctx context.Context, id int64) string {
	companyData, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return companyData.Name
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
