package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/company"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

const companyColumns = `id, name, code, created_at, updated_at`

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// List implements company.CompanyRepository.
func (c *companyRepositoryImpl) List(ctx context.Context) ([]company.Company, error) {
	q := GetQuerier(ctx, c.db)

	rows, err := q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []company.Company{}
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, found)
	}
	return companies, rows.Err()
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id int64) (company.Company, error) {
	q := GetQuerier(ctx, c.db)
	return scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

// GetByCode implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByCode(ctx context.Context, code string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)
	return scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE UPPER(code) = UPPER($1)`, code))
}

// ExistsByCode implements company.CompanyRepository.
func (c *companyRepositoryImpl) ExistsByCode(ctx context.Context, code string, excludeID *int64) (bool, error) {
	q := GetQuerier(ctx, c.db)

	query := `SELECT EXISTS(SELECT 1 FROM companies WHERE UPPER(code) = UPPER($1) AND ($2::BIGINT IS NULL OR id <> $2))`

	var exists bool
	if err := q.QueryRow(ctx, query, code, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO companies (name, code)
		VALUES ($1, $2)
		RETURNING ` + companyColumns

	return scanCompany(q.QueryRow(ctx, query, newCompany.Name, newCompany.Code))
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, id int64, req company.UpdateCompanyRequest) error {
	q := GetQuerier(ctx, c.db)

	setClauses := []string{}
	args := []interface{}{}
	if req.Name != nil {
		args = append(args, *req.Name)
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", len(args)))
	}
	if req.Code != nil {
		args = append(args, *req.Code)
		setClauses = append(setClauses, fmt.Sprintf("code = $%d", len(args)))
	}
	if len(setClauses) == 0 {
		return company.ErrNoFieldsToUpdate
	}
	args = append(args, time.Now())
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	sql := "UPDATE companies SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", len(args))

	var updatedID int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		return fmt.Errorf("failed to update company with id %d: %w", id, err)
	}
	return nil
}

// Delete implements company.CompanyRepository.
func (c *companyRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, c.db)

	tag, err := q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountEmployees implements company.CompanyRepository.
func (c *companyRepositoryImpl) CountEmployees(ctx context.Context, id int64) (int, error) {
	q := GetQuerier(ctx, c.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE company_id = $1`, id).Scan(&count)
	return count, err
}
