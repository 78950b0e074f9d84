package attendance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/company"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
	"github.com/jackc/pgx/v5"
)

var errNotImplemented = errors.New("not implemented in fake")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeTransactor runs one transaction at a time, standing in for the
// advisory locks the repositories take inside real transactions.
type fakeTransactor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type recordKey struct {
	employeeID int64
	date       string
}

type fakeAttendanceRepo struct {
	mu        sync.Mutex
	records   map[recordKey]attendance.Record
	nextID    int64
	locks     int
	creates   int
	updates   int
	getErr    error
	updateErr error
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[recordKey]attendance.Record)}
}

func keyFor(employeeID int64, date time.Time) recordKey {
	return recordKey{employeeID: employeeID, date: date.Format("2006-01-02")}
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.records[keyFor(employeeID, date)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	f.nextID++
	record.ID = f.nextID
	f.records[keyFor(record.EmployeeID, record.WorkDate)] = record
	return record, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, record attendance.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	f.records[keyFor(record.EmployeeID, record.WorkDate)] = record
	return nil
}

func (f *fakeAttendanceRepo) LockEmployeeDay(ctx context.Context, employeeID int64, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks++
	return nil
}

func (f *fakeAttendanceRepo) CountAbsences(ctx context.Context, employeeID int64, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, r := range f.records {
		if r.EmployeeID != employeeID || r.DayState != attendance.DayStateAbsent {
			continue
		}
		if !r.WorkDate.Before(from) && r.WorkDate.Before(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeAndPeriod(ctx context.Context, employeeID int64, from, to time.Time) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID && !r.WorkDate.Before(from) && !r.WorkDate.After(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkDate.Before(out[j].WorkDate) })
	return out, nil
}

func (f *fakeAttendanceRepo) CreateAbsences(ctx context.Context, employeeIDs []int64, date time.Time) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var marked []int64
	for _, id := range employeeIDs {
		k := keyFor(id, date)
		if _, ok := f.records[k]; ok {
			continue
		}
		f.nextID++
		f.records[k] = attendance.Record{ID: f.nextID, EmployeeID: id, WorkDate: date, DayState: attendance.DayStateAbsent}
		marked = append(marked, id)
	}
	return marked, nil
}

func (f *fakeAttendanceRepo) get(employeeID int64, date time.Time) (attendance.Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[keyFor(employeeID, date)]
	return r, ok
}

// addAbsence stores an ABSENT record directly.
func (f *fakeAttendanceRepo) addAbsence(employeeID int64, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.records[keyFor(employeeID, date)] = attendance.Record{
		ID:         f.nextID,
		EmployeeID: employeeID,
		WorkDate:   date,
		DayState:   attendance.DayStateAbsent,
	}
}

type fakeScanLogRepo struct {
	mu      sync.Mutex
	entries []attendance.ScanLogEntry
	locks   int
	err     error
}

func (f *fakeScanLogRepo) LockScanCode(ctx context.Context, scanCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.locks++
	return nil
}

func (f *fakeScanLogRepo) ExistsRecent(ctx context.Context, scanCode string, since time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, e := range f.entries {
		if e.ScanCode == scanCode && !e.ScannedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeScanLogRepo) Record(ctx context.Context, entry attendance.ScanLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeScanLogRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type alertKey struct {
	employeeID int64
	count      int
}

type fakeAlertRepo struct {
	mu   sync.Mutex
	sent map[alertKey]bool
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{sent: make(map[alertKey]bool)}
}

func (f *fakeAlertRepo) Exists(ctx context.Context, employeeID int64, absenceCount int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[alertKey{employeeID, absenceCount}], nil
}

func (f *fakeAlertRepo) Reserve(ctx context.Context, employeeID int64, absenceCount int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := alertKey{employeeID, absenceCount}
	if f.sent[key] {
		return false, nil
	}
	f.sent[key] = true
	return true, nil
}

func (f *fakeAlertRepo) Release(ctx context.Context, employeeID int64, absenceCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sent, alertKey{employeeID, absenceCount})
	return nil
}

type sentAlert struct {
	name    string
	email   string
	count   int
	company string
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []sentAlert
	err   error
	delay time.Duration
}

func (f *fakeSender) SendAbsenceAlert(ctx context.Context, employeeName, email string, absenceCount int, companyName string) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentAlert{employeeName, email, absenceCount, companyName})
	return nil
}

func (f *fakeSender) calls() []sentAlert {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentAlert(nil), f.sent...)
}

type fakeEmployeeRepo struct {
	byID map[int64]employee.Employee
}

func newFakeEmployeeRepo(emps ...employee.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{byID: make(map[int64]employee.Employee)}
	for _, e := range emps {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, pgx.ErrNoRows
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByScanCode(ctx context.Context, scanCode string) (employee.Employee, error) {
	for _, e := range f.byID {
		if e.ScanCode == scanCode {
			return e, nil
		}
	}
	return employee.Employee{}, pgx.ErrNoRows
}

func (f *fakeEmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	return nil, errNotImplemented
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.byID {
		if e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEmployeeRepo) ExistsByDNI(ctx context.Context, dni string, excludeID *int64) (bool, error) {
	return false, errNotImplemented
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	return employee.Employee{}, errNotImplemented
}

func (f *fakeEmployeeRepo) SetScanCode(ctx context.Context, id int64, scanCode string) error {
	return errNotImplemented
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) error {
	return errNotImplemented
}

func (f *fakeEmployeeRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return errNotImplemented
}

func (f *fakeEmployeeRepo) Delete(ctx context.Context, id int64) error {
	return errNotImplemented
}

type fakeCompanyRepo struct {
	byID map[int64]company.Company
}

func (f *fakeCompanyRepo) List(ctx context.Context) ([]company.Company, error) {
	return nil, errNotImplemented
}

func (f *fakeCompanyRepo) GetByID(ctx context.Context, id int64) (company.Company, error) {
	c, ok := f.byID[id]
	if !ok {
		return company.Company{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCompanyRepo) GetByCode(ctx context.Context, code string) (company.Company, error) {
	return company.Company{}, errNotImplemented
}

func (f *fakeCompanyRepo) ExistsByCode(ctx context.Context, code string, excludeID *int64) (bool, error) {
	return false, errNotImplemented
}

func (f *fakeCompanyRepo) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	return company.Company{}, errNotImplemented
}

func (f *fakeCompanyRepo) Update(ctx context.Context, id int64, req company.UpdateCompanyRequest) error {
	return errNotImplemented
}

func (f *fakeCompanyRepo) Delete(ctx context.Context, id int64) error {
	return errNotImplemented
}

func (f *fakeCompanyRepo) CountEmployees(ctx context.Context, id int64) (int, error) {
	return 0, errNotImplemented
}

type fixedSchedule struct {
	schedule attendance.Schedule
	err      error
}

func (f fixedSchedule) ForCompany(ctx context.Context, companyID int64) (attendance.Schedule, error) {
	return f.schedule, f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []attendance.ScanResult
}

func (f *fakePublisher) PublishScan(companyID int64, result attendance.ScanResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, result)
}

type countingAlerter struct {
	mu  sync.Mutex
	ids []int64
}

func (c *countingAlerter) CheckAndNotify(ctx context.Context, employeeID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, employeeID)
}

func defaultSchedule() attendance.Schedule {
	return attendance.Schedule{
		MorningExpectedIn:   attendance.MustParseTimeOfDay("06:50"),
		AfternoonExpectedIn: attendance.MustParseTimeOfDay("13:00"),
		MorningCutoff:       attendance.MustParseTimeOfDay("12:45"),
	}
}

func tod(s string) *attendance.TimeOfDay {
	t := attendance.MustParseTimeOfDay(s)
	return &t
}

func strPtr(s string) *string {
	return &s
}
