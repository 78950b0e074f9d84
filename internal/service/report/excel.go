package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	employeesSheet = "Reporte Empleados"
	summarySheet   = "Resumen"
)

var employeeHeaders = []string{"Nombre", "DNI", "Asistencias", "Faltas", "Horas Normales", "Horas Extras", "Porcentaje Asistencia (%)"}

var employeeColumnWidths = []float64{20, 15, 12, 8, 15, 15, 20}

// ExportMonthlyExcel implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyExcel(ctx context.Context, req report.MonthlyReportRequest) (report.ExcelFile, error) {
	monthly, err := s.MonthlyReport(ctx, req)
	if err != nil {
		return report.ExcelFile{}, err
	}

	content, err := renderMonthlyWorkbook(monthly, s.now().Format("02/01/2006 15:04:05"))
	if err != nil {
		return report.ExcelFile{}, fmt.Errorf("failed to render excel report: %w", err)
	}

	companyName := strings.ReplaceAll(monthly.Company.Name, " ", "_")
	if companyName == "" {
		companyName = "empresa"
	}
	return report.ExcelFile{
		Filename: fmt.Sprintf("reporte_asistencia_%s_%d_%d.xlsx", companyName, req.Month, req.Year),
		Content:  content,
	}, nil
}

func renderMonthlyWorkbook(monthly report.MonthlyReport, generatedAt string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", employeesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#CCCCCC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	// Sheet 1: one row per employee
	if err := f.SetSheetRow(employeesSheet, "A1", &employeeHeaders); err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(employeeHeaders), 1)
	if err := f.SetCellStyle(employeesSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}
	for i, e := range monthly.Employees {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{e.FullName, e.DNI, e.Attended, e.Absences, e.NormalHours, e.OvertimeHours, e.AttendancePercentage}
		if err := f.SetSheetRow(employeesSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	for i, width := range employeeColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(employeesSheet, col, col, width); err != nil {
			return nil, err
		}
	}

	// Sheet 2: Concepto / Valor
	summary := [][]interface{}{
		{"Concepto", "Valor"},
		{"Empresa", monthly.Company.Name},
		{"Período", fmt.Sprintf("%s %d", spanishMonths[monthly.Period.Month], monthly.Period.Year)},
		{"Fecha Inicio", monthly.Period.FirstDay},
		{"Fecha Fin", monthly.Period.LastDay},
		{"Días Laborables", monthly.Totals.WorkingDays},
		{"Total Empleados", monthly.Totals.Employees},
		{"Total Horas Normales", monthly.Totals.NormalHours},
		{"Total Horas Extras", monthly.Totals.OvertimeHours},
		{"Total Faltas", monthly.Totals.Absences},
		{"Generado", generatedAt},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 25); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 30); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
