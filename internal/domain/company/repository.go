package company

import "context"

type CompanyRepository interface {
	List(ctx context.Context) ([]Company, error)
	GetByID(ctx context.Context, id int64) (Company, error)
	GetByCode(ctx context.Context, code string) (Company, error)
	ExistsByCode(ctx context.Context, code string, excludeID *int64) (bool, error)
	Create(ctx context.Context, newCompany Company) (Company, error)
	Update(ctx context.Context, id int64, req UpdateCompanyRequest) error
	Delete(ctx context.Context, id int64) error
	CountEmployees(ctx context.Context, id int64) (int, error)
}
