package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/company"
	"github.com/jackc/pgx/v5"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
}

func NewCompanyService(companyRepo company.CompanyRepository) company.CompanyService {
	return &CompanyServiceImpl{CompanyRepository: companyRepo}
}

// List implements company.CompanyService.
func (c *CompanyServiceImpl) List(ctx context.Context) ([]company.CompanyResponse, error) {
	companies, err := c.CompanyRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	responses := make([]company.CompanyResponse, 0, len(companies))
	for _, co := range companies {
		responses = append(responses, company.NewCompanyResponse(co))
	}
	return responses, nil
}

// Create implements company.CompanyService.
func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	exists, err := c.CompanyRepository.ExistsByCode(ctx, req.Code, nil)
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to check company code: %w", err)
	}
	if exists {
		return company.CompanyResponse{}, company.ErrCompanyCodeExists
	}

	newCompany, err := c.CompanyRepository.Create(ctx, company.Company{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to create company: %w", err)
	}

	slog.Info("company created", "company_id", newCompany.ID, "code", newCompany.Code)
	return company.NewCompanyResponse(newCompany), nil
}

// GetByID implements company.CompanyService.
func (c *CompanyServiceImpl) GetByID(ctx context.Context, id int64) (company.CompanyResponse, error) {
	companyData, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.CompanyResponse{}, company.ErrCompanyNotFound
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to get company by ID: %w", err)
	}
	return company.NewCompanyResponse(companyData), nil
}

// Update implements company.CompanyService.
// Changing the code does not rewrite scan codes already issued to employees.
func (c *CompanyServiceImpl) Update(ctx context.Context, id int64, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if req.Name == nil && req.Code == nil {
		return company.CompanyResponse{}, company.ErrNoFieldsToUpdate
	}
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	if req.Code != nil {
		exists, err := c.CompanyRepository.ExistsByCode(ctx, *req.Code, &id)
		if err != nil {
			return company.CompanyResponse{}, fmt.Errorf("failed to check company code: %w", err)
		}
		if exists {
			return company.CompanyResponse{}, company.ErrCompanyCodeExists
		}
	}

	if err := c.CompanyRepository.Update(ctx, id, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.CompanyResponse{}, company.ErrCompanyNotFound
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to update company: %w", err)
	}

	return c.GetByID(ctx, id)
}

// Delete implements company.CompanyService.
func (c *CompanyServiceImpl) Delete(ctx context.Context, id int64) error {
	count, err := c.CompanyRepository.CountEmployees(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count company employees: %w", err)
	}
	if count > 0 {
		return company.ErrCompanyHasEmployees
	}

	if err := c.CompanyRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.ErrCompanyNotFound
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}
	slog.Info("company deleted", "company_id", id)
	return nil
}
