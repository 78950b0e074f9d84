package employee

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/company"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTransactor struct{ calls int }

func (p *passthroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type memEmployeeRepo struct {
	nextID    int64
	employees map[int64]employee.Employee
}

func newMemEmployeeRepo() *memEmployeeRepo {
	return &memEmployeeRepo{employees: map[int64]employee.Employee{}}
}

func (m *memEmployeeRepo) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, pgx.ErrNoRows
	}
	return e, nil
}

func (m *memEmployeeRepo) GetByScanCode(ctx context.Context, scanCode string) (employee.Employee, error) {
	for _, e := range m.employees {
		if e.ScanCode == scanCode {
			return e, nil
		}
	}
	return employee.Employee{}, pgx.ErrNoRows
}

func (m *memEmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	var out []employee.Employee
	for id := int64(1); id <= m.nextID; id++ {
		e, ok := m.employees[id]
		if !ok {
			continue
		}
		if filter.CompanyID != nil && e.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.Active != nil && e.IsActive != *filter.Active {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	active := true
	return m.List(ctx, employee.EmployeeFilter{Active: &active})
}

func (m *memEmployeeRepo) ExistsByDNI(ctx context.Context, dni string, excludeID *int64) (bool, error) {
	for _, e := range m.employees {
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		if e.DNI == dni {
			return true, nil
		}
	}
	return false, nil
}

func (m *memEmployeeRepo) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	m.nextID++
	newEmployee.ID = m.nextID
	newEmployee.CreatedAt = time.Now()
	newEmployee.UpdatedAt = newEmployee.CreatedAt
	m.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (m *memEmployeeRepo) SetScanCode(ctx context.Context, id int64, scanCode string) error {
	e, ok := m.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.ScanCode = scanCode
	m.employees[id] = e
	return nil
}

func (m *memEmployeeRepo) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) error {
	e, ok := m.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if req.FullName != nil {
		e.FullName = *req.FullName
	}
	if req.DNI != nil {
		e.DNI = *req.DNI
	}
	if req.Email != nil {
		e.Email = nonEmpty(req.Email)
	}
	if req.Phone != nil {
		e.Phone = nonEmpty(req.Phone)
	}
	m.employees[id] = e
	return nil
}

func (m *memEmployeeRepo) SetActive(ctx context.Context, id int64, active bool) error {
	e, ok := m.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.IsActive = active
	m.employees[id] = e
	return nil
}

func (m *memEmployeeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.employees[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.employees, id)
	return nil
}

type companyLookup struct {
	company.CompanyRepository
	companies []company.Company
}

func (c companyLookup) GetByID(ctx context.Context, id int64) (company.Company, error) {
	for _, co := range c.companies {
		if co.ID == id {
			return co, nil
		}
	}
	return company.Company{}, pgx.ErrNoRows
}

func (c companyLookup) List(ctx context.Context) ([]company.Company, error) {
	return c.companies, nil
}

type recordingFiles struct {
	uploads int
	err     error
}

func (r *recordingFiles) UploadEmployeeQR(ctx context.Context, companyCode string, employeeID int64, content []byte) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.uploads++
	return "qr/" + companyCode + "/badge.png", nil
}

func (r *recordingFiles) DeleteFile(ctx context.Context, path string) error { return nil }

func (r *recordingFiles) GetFileURL(path string) string { return "http://files.test/" + path }

type fixture struct {
	svc   employee.EmployeeService
	repo  *memEmployeeRepo
	tx    *passthroughTransactor
	files *recordingFiles
}

func newFixture() fixture {
	repo := newMemEmployeeRepo()
	tx := &passthroughTransactor{}
	files := &recordingFiles{}
	companies := companyLookup{companies: []company.Company{
		{ID: 1, Name: "Acme SAC", Code: "ACME"},
		{ID: 2, Name: "Beta EIRL", Code: "BETA"},
	}}
	return fixture{
		svc:   NewEmployeeService(tx, repo, companies, files),
		repo:  repo,
		tx:    tx,
		files: files,
	}
}

func strPtr(s string) *string { return &s }

func register(t *testing.T, f fixture, name, dni string, companyID int64) employee.EmployeeResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), employee.CreateEmployeeRequest{
		FullName:  name,
		CompanyID: companyID,
		DNI:       dni,
	})
	require.NoError(t, err)
	return resp
}

func TestEmployeeService_Register(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Register(context.Background(), employee.CreateEmployeeRequest{
		FullName:  "Ana Quispe",
		CompanyID: 1,
		DNI:       "12345678",
		Phone:     strPtr("987654321"),
		Email:     strPtr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "EMP_ACME_1", resp.ScanCode)
	assert.Equal(t, "Acme SAC", resp.CompanyName)
	assert.True(t, resp.IsActive)
	assert.Nil(t, resp.Email)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, "EMP_ACME_1", f.repo.employees[1].ScanCode)
}

func TestEmployeeService_Register_Errors(t *testing.T) {
	f := newFixture()
	register(t, f, "Ana Quispe", "12345678", 1)

	_, err := f.svc.Register(context.Background(), employee.CreateEmployeeRequest{FullName: "Luis", CompanyID: 1, DNI: "12345678"})
	assert.ErrorIs(t, err, employee.ErrDNIExists)

	_, err = f.svc.Register(context.Background(), employee.CreateEmployeeRequest{FullName: "Luis", CompanyID: 9, DNI: "87654321"})
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)

	_, err = f.svc.Register(context.Background(), employee.CreateEmployeeRequest{FullName: "Luis", CompanyID: 1, DNI: "1234"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestEmployeeService_List(t *testing.T) {
	f := newFixture()
	register(t, f, "Ana Quispe", "12345678", 1)
	register(t, f, "Luis Rojas", "87654321", 2)

	all, err := f.svc.List(context.Background(), employee.EmployeeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Beta EIRL", all[1].CompanyName)

	companyID := int64(2)
	filtered, err := f.svc.List(context.Background(), employee.EmployeeFilter{CompanyID: &companyID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "EMP_BETA_2", filtered[0].ScanCode)
}

func TestEmployeeService_Update(t *testing.T) {
	f := newFixture()
	ana := register(t, f, "Ana Quispe", "12345678", 1)
	register(t, f, "Luis Rojas", "87654321", 1)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, ana.ID, employee.UpdateEmployeeRequest{DNI: strPtr("87654321")})
	assert.ErrorIs(t, err, employee.ErrDNIExists)

	updated, err := f.svc.Update(ctx, ana.ID, employee.UpdateEmployeeRequest{
		FullName: strPtr("Ana Quispe Huaman"),
		Email:    strPtr("ana@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Quispe Huaman", updated.FullName)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "ana@example.com", *updated.Email)

	_, err = f.svc.Update(ctx, 99, employee.UpdateEmployeeRequest{FullName: strPtr("Ghost")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.Update(ctx, ana.ID, employee.UpdateEmployeeRequest{})
	assert.ErrorIs(t, err, employee.ErrNoFieldsToUpdate)
}

func TestEmployeeService_ToggleActive(t *testing.T) {
	f := newFixture()
	ana := register(t, f, "Ana Quispe", "12345678", 1)
	ctx := context.Background()

	resp, err := f.svc.ToggleActive(ctx, ana.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	resp, err = f.svc.ToggleActive(ctx, ana.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)

	_, err = f.svc.ToggleActive(ctx, 42)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_Delete(t *testing.T) {
	f := newFixture()
	ana := register(t, f, "Ana Quispe", "12345678", 1)

	require.NoError(t, f.svc.Delete(context.Background(), ana.ID))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), ana.ID), employee.ErrEmployeeNotFound)
}

func TestEmployeeService_QRCode(t *testing.T) {
	f := newFixture()
	ana := register(t, f, "Ana Quispe", "12345678", 1)

	resp, err := f.svc.QRCode(context.Background(), ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "qr_empleado_1_ACME.png", resp.Filename)
	assert.Equal(t, "qr/ACME/badge.png", resp.Path)
	assert.Equal(t, "http://files.test/qr/ACME/badge.png", resp.URL)
	assert.Equal(t, 1, f.files.uploads)

	_, err = png.Decode(bytes.NewReader(resp.Content))
	assert.NoError(t, err)
}

func TestEmployeeService_QRCode_StorageFailureStillReturnsImage(t *testing.T) {
	f := newFixture()
	ana := register(t, f, "Ana Quispe", "12345678", 1)
	f.files.err = errors.New("disk full")

	resp, err := f.svc.QRCode(context.Background(), ana.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Content)
	assert.Empty(t, resp.Path)
}

func TestEmployeeService_QRCode_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.QRCode(context.Background(), 5)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
