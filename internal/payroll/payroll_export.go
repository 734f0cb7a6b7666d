package payroll

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet       = "Payroll"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []string{
	"entry_id", "employee_id", "first_name", "last_name",
	"pay_period_start", "pay_period_end", "gross_pay", "deductions", "net_pay", "notes",
}

// Export is a rendered xlsx workbook.
type Export struct {
	FileName string
	Data     []byte
}

func exportFileName(companyID int64, r RangeQuery) string {
	name := fmt.Sprintf("payroll_company_%d", companyID)
	if r.StartDate != "" {
		name += "_from_" + r.StartDate
	}
	if r.EndDate != "" {
		name += "_to_" + r.EndDate
	}
	return name + ".xlsx"
}

// buildWorkbook writes one row per entry under a header row, followed by a
// totals row.
func buildWorkbook(rows []ExportRow, totals Totals) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}
	if err := xl.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	for i, r := range rows {
		record := []any{
			r.ID,
			r.EmployeeID,
			r.FirstName,
			r.LastName,
			r.PayPeriodStart.Format(dateLayout),
			r.PayPeriodEnd.Format(dateLayout),
			r.GrossPay.StringFixed(2),
			r.Deductions.StringFixed(2),
			r.NetPay.StringFixed(2),
			r.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := xl.SetSheetRow(exportSheet, cell, &record); err != nil {
			return nil, err
		}
	}

	totalRow := []any{
		"TOTAL", strconv.FormatInt(totals.EntryCount, 10), "", "", "", "",
		totals.GrossPay.StringFixed(2),
		totals.Deductions.StringFixed(2),
		totals.NetPay.StringFixed(2),
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+2)
	if err != nil {
		return nil, err
	}
	if err := xl.SetSheetRow(exportSheet, cell, &totalRow); err != nil {
		return nil, err
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sumRows totals the exported rows so the footer matches the sheet.
func sumRows(rows []ExportRow) Totals {
	var t Totals
	for _, r := range rows {
		t.EntryCount++
		t.GrossPay = t.GrossPay.Add(r.GrossPay)
		t.Deductions = t.Deductions.Add(r.Deductions)
		t.NetPay = t.NetPay.Add(r.NetPay)
	}
	return t
}
