package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
	"github.com/asistencia-qr/attendance-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lima = time.FixedZone("America/Lima", -5*60*60)

type serviceFixture struct {
	clock     *fakeClock
	tx        *fakeTransactor
	records   *fakeAttendanceRepo
	scans     *fakeScanLogRepo
	alerter   *countingAlerter
	publisher *fakePublisher
	service   attendance.AttendanceService
	schedule  fixedSchedule
	employees *fakeEmployeeRepo
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		clock:     newFakeClock(time.Date(2025, 3, 17, 6, 45, 0, 0, lima)),
		tx:        &fakeTransactor{},
		records:   newFakeAttendanceRepo(),
		scans:     &fakeScanLogRepo{},
		alerter:   &countingAlerter{},
		publisher: &fakePublisher{},
		schedule:  fixedSchedule{schedule: defaultSchedule()},
		employees: newFakeEmployeeRepo(
			employee.Employee{ID: 1, CompanyID: 3, FullName: "Ana Quispe", ScanCode: "EMP_ACME_1", IsActive: true},
			employee.Employee{ID: 2, CompanyID: 3, FullName: "Luis Rojas", ScanCode: "EMP_ACME_2", IsActive: false},
		),
	}
	f.build()
	return f
}

func (f *serviceFixture) build() {
	f.service = NewAttendanceService(f.tx, f.records, f.scans, f.employees, f.schedule, f.alerter, f.publisher, Policy{
		DedupWindow:          10 * time.Second,
		StandardDailyMinutes: 480,
		Location:             lima,
		Now:                  f.clock.Now,
	})
}

func (f *serviceFixture) scanAt(clock string, code string) attendance.ScanResult {
	t := attendance.MustParseTimeOfDay(clock)
	f.clock.Set(time.Date(2025, 3, 17, t.Hour, t.Minute, t.Second, 0, lima))
	return f.service.ProcessScan(context.Background(), attendance.ScanRequest{ScanCode: code, SourceAddr: "10.0.0.8"})
}

var workDate = time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

func TestProcessScan_FullDay(t *testing.T) {
	f := newServiceFixture(t)

	res := f.scanAt("06:45", "EMP_ACME_1")
	require.Equal(t, attendance.StatusSuccess, res.Status)
	assert.Equal(t, "Entrada mañana registrada: 06:45:00", res.Message)
	require.NotNil(t, res.Data)
	assert.Equal(t, int64(1), res.Data.Employee.ID)
	assert.Equal(t, "Ana Quispe", res.Data.Employee.Name)
	assert.Equal(t, "2025-03-17", res.Data.Attendance.Date)
	require.NotNil(t, res.Data.Attendance.MorningIn)
	assert.Nil(t, res.Data.Attendance.MorningOut)

	f.scanAt("12:30", "EMP_ACME_1")
	f.scanAt("13:10", "EMP_ACME_1")
	res = f.scanAt("17:40", "EMP_ACME_1")
	require.Equal(t, attendance.StatusSuccess, res.Status)
	assert.Equal(t, "Salida tarde registrada: 17:40:00", res.Message)

	f.service.Wait()

	record, ok := f.records.get(1, workDate)
	require.True(t, ok)
	assert.Equal(t, attendance.DayStateComplete, record.DayState)
	assert.Equal(t, 10.25, record.TotalHours)
	assert.Equal(t, 8.0, record.NormalHours)
	assert.Equal(t, 2.25, record.OvertimeHours)
	assert.True(t, record.LateAfternoon)
	assert.False(t, record.LateMorning)
	assert.Equal(t, 1, f.records.creates)
	assert.Equal(t, 3, f.records.updates)
	assert.Equal(t, 4, f.records.locks)
	assert.True(t, res.Data.Attendance.LateAfternoon)
	assert.Equal(t, "COMPLETE", res.Data.Attendance.DayState)
	assert.Len(t, f.publisher.events, 4)
	assert.Equal(t, []int64{1, 1, 1, 1}, f.alerter.ids)
}

func TestProcessScan_DayCompleteDoesNotWrite(t *testing.T) {
	f := newServiceFixture(t)
	for _, at := range []string{"06:45", "12:30", "13:10", "17:40"} {
		f.scanAt(at, "EMP_ACME_1")
	}

	res := f.scanAt("18:30", "EMP_ACME_1")

	assert.Equal(t, attendance.StatusSuccess, res.Status)
	assert.Equal(t, "Todos los registros del día completos", res.Message)
	assert.Equal(t, 3, f.records.updates)
	assert.Len(t, f.publisher.events, 4)
	require.NotNil(t, res.Data)
	assert.Equal(t, 10.25, res.Data.Attendance.TotalHours)
}

func TestProcessScan_Dedup(t *testing.T) {
	t.Run("3 seconds apart is duplicate", func(t *testing.T) {
		f := newServiceFixture(t)

		first := f.scanAt("06:45:00", "EMP_ACME_1")
		second := f.scanAt("06:45:03", "EMP_ACME_1")

		assert.Equal(t, attendance.StatusSuccess, first.Status)
		assert.Equal(t, attendance.StatusDuplicate, second.Status)
		assert.Equal(t, "Código QR escaneado recientemente", second.Message)
		assert.Nil(t, second.Data)
		assert.Equal(t, 1, f.scans.count(), "duplicates are not logged")

		record, _ := f.records.get(1, workDate)
		assert.Nil(t, record.MorningOut)
	})

	t.Run("11 seconds apart is processed", func(t *testing.T) {
		f := newServiceFixture(t)

		f.scanAt("06:45:00", "EMP_ACME_1")
		second := f.scanAt("06:45:11", "EMP_ACME_1")

		assert.Equal(t, attendance.StatusSuccess, second.Status)
		assert.Equal(t, "Salida mañana registrada: 06:45:11", second.Message)
		assert.Equal(t, 2, f.scans.count())
	})

	t.Run("window is anchored at the earliest accepted scan", func(t *testing.T) {
		f := newServiceFixture(t)

		f.scanAt("06:45:00", "EMP_ACME_1")
		assert.Equal(t, attendance.StatusDuplicate, f.scanAt("06:45:06", "EMP_ACME_1").Status)
		assert.Equal(t, attendance.StatusSuccess, f.scanAt("06:45:12", "EMP_ACME_1").Status)
	})
}

// slowScanLogRepo widens the gap between the recent-scan check and the
// insert, as a database round trip would.
type slowScanLogRepo struct {
	*fakeScanLogRepo
	delay time.Duration
}

func (s slowScanLogRepo) ExistsRecent(ctx context.Context, scanCode string, since time.Time) (bool, error) {
	recent, err := s.fakeScanLogRepo.ExistsRecent(ctx, scanCode, since)
	time.Sleep(s.delay)
	return recent, err
}

func TestProcessScan_SimultaneousDoubleSubmitIsRecordedOnce(t *testing.T) {
	f := newServiceFixture(t)
	f.service = NewAttendanceService(f.tx, f.records, slowScanLogRepo{f.scans, 50 * time.Millisecond}, f.employees, f.schedule, f.alerter, f.publisher, Policy{
		DedupWindow:          10 * time.Second,
		StandardDailyMinutes: 480,
		Location:             lima,
		Now:                  f.clock.Now,
	})

	results := make([]attendance.ScanResult, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.service.ProcessScan(context.Background(), attendance.ScanRequest{ScanCode: "EMP_ACME_1", SourceAddr: "10.0.0.8"})
		}(i)
	}
	wg.Wait()
	f.service.Wait()

	assert.ElementsMatch(t, []string{attendance.StatusSuccess, attendance.StatusDuplicate}, []string{results[0].Status, results[1].Status})
	assert.Equal(t, 1, f.scans.count())
	assert.Equal(t, 2, f.scans.locks)

	record, ok := f.records.get(1, workDate)
	require.True(t, ok)
	assert.NotNil(t, record.MorningIn)
	assert.Nil(t, record.MorningOut)
}

func TestProcessScan_UnresolvedCodeIsLoggedButNotRecorded(t *testing.T) {
	f := newServiceFixture(t)

	res := f.scanAt("08:00", "EMP_ACME_404")

	assert.Equal(t, attendance.StatusError, res.Status)
	assert.Equal(t, "Empleado no encontrado", res.Message)
	assert.Nil(t, res.Data)
	assert.Equal(t, 1, f.scans.count())
	assert.Equal(t, 0, f.records.locks)
	assert.Empty(t, f.records.records)
}

func TestProcessScan_InactiveEmployeeIsRejected(t *testing.T) {
	f := newServiceFixture(t)

	res := f.scanAt("08:00", "EMP_ACME_2")

	assert.Equal(t, attendance.StatusError, res.Status)
	assert.Equal(t, "Empleado inactivo", res.Message)
	assert.Empty(t, f.records.records)
}

func TestProcessScan_EmptyCode(t *testing.T) {
	f := newServiceFixture(t)

	res := f.scanAt("08:00", "   ")

	assert.Equal(t, attendance.StatusError, res.Status)
	assert.Equal(t, 0, f.scans.count())
}

func TestProcessScan_StorageFailuresBecomeGenericError(t *testing.T) {
	t.Run("scan log", func(t *testing.T) {
		f := newServiceFixture(t)
		f.scans.err = errors.New("connection refused")

		res := f.scanAt("08:00", "EMP_ACME_1")

		assert.Equal(t, attendance.StatusError, res.Status)
		assert.Equal(t, "Error inesperado registrando asistencia", res.Message)
		assert.NotContains(t, res.Message, "connection refused")
	})

	t.Run("transaction", func(t *testing.T) {
		f := newServiceFixture(t)
		f.tx.err = errors.New("deadlock detected")

		res := f.scanAt("08:00", "EMP_ACME_1")

		assert.Equal(t, attendance.StatusError, res.Status)
		assert.Equal(t, "Error inesperado registrando asistencia", res.Message)
		assert.Empty(t, f.alerter.ids)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("update", func(t *testing.T) {
		f := newServiceFixture(t)
		f.scanAt("06:45", "EMP_ACME_1")
		f.records.updateErr = errors.New("disk full")

		res := f.scanAt("12:30", "EMP_ACME_1")

		assert.Equal(t, attendance.StatusError, res.Status)
		assert.Len(t, f.publisher.events, 1)
	})

	t.Run("schedule", func(t *testing.T) {
		f := newServiceFixture(t)
		f.schedule = fixedSchedule{err: errors.New("timeout")}
		f.build()

		res := f.scanAt("08:00", "EMP_ACME_1")

		assert.Equal(t, attendance.StatusError, res.Status)
		assert.Empty(t, f.records.records)
	})
}

type panickingSchedule struct{}

func (panickingSchedule) ForCompany(ctx context.Context, companyID int64) (attendance.Schedule, error) {
	panic("boom")
}

func TestProcessScan_RecoversFromPanic(t *testing.T) {
	f := newServiceFixture(t)
	f.service = NewAttendanceService(f.tx, f.records, f.scans, f.employees, panickingSchedule{}, nil, nil, Policy{
		DedupWindow: 10 * time.Second,
		Location:    lima,
		Now:         f.clock.Now,
	})

	var res attendance.ScanResult
	require.NotPanics(t, func() { res = f.scanAt("08:00", "EMP_ACME_1") })
	assert.Equal(t, attendance.StatusError, res.Status)
	assert.Equal(t, "Error inesperado registrando asistencia", res.Message)
}

func TestProcessScan_AfternoonArrivalAfterCutoff(t *testing.T) {
	f := newServiceFixture(t)

	res := f.scanAt("13:05", "EMP_ACME_1")

	assert.Equal(t, "Entrada tarde registrada: 13:05:00", res.Message)
	assert.Nil(t, res.Data.Attendance.MorningIn)
	require.NotNil(t, res.Data.Attendance.AfternoonIn)
	assert.True(t, res.Data.Attendance.LateAfternoon)
}

func TestProcessScan_UsesBusinessTimezoneForDate(t *testing.T) {
	f := newServiceFixture(t)
	// 23:30 in Lima is already the next day in UTC.
	f.clock.Set(time.Date(2025, 3, 17, 23, 30, 0, 0, lima).UTC())

	res := f.service.ProcessScan(context.Background(), attendance.ScanRequest{ScanCode: "EMP_ACME_1"})

	require.Equal(t, attendance.StatusSuccess, res.Status)
	assert.Equal(t, "2025-03-17", res.Data.Attendance.Date)
	assert.Equal(t, "23:30:00", *res.Data.Attendance.AfternoonIn)
}
