package payroll

import (
	"time"

	"go-payroll/internal/shared/pagination"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CreatePayrollRequest struct {
	EmployeeID     int64            `json:"employee_id" binding:"required,gt=0"`
	PayPeriodStart string           `json:"pay_period_start" binding:"required,datetime=2006-01-02"`
	PayPeriodEnd   string           `json:"pay_period_end" binding:"required,datetime=2006-01-02"`
	GrossPay       *decimal.Decimal `json:"gross_pay" binding:"required,gte=0"`
	Deductions     *decimal.Decimal `json:"deductions" binding:"required,gte=0"`
	NetPay         *decimal.Decimal `json:"net_pay" binding:"required,gte=0"`
	Notes          string           `json:"notes" binding:"omitempty,max=1000"`
}

// UpdatePayrollRequest patches the amounts and notes. The pay period is not
// patchable.
type UpdatePayrollRequest struct {
	GrossPay   *decimal.Decimal `json:"gross_pay" binding:"omitempty,gte=0"`
	Deductions *decimal.Decimal `json:"deductions" binding:"omitempty,gte=0"`
	NetPay     *decimal.Decimal `json:"net_pay" binding:"omitempty,gte=0"`
	Notes      *string          `json:"notes" binding:"omitempty,max=1000"`
}

func (r UpdatePayrollRequest) fields() map[string]any {
	fields := make(map[string]any)
	if r.GrossPay != nil {
		fields["gross_pay"] = *r.GrossPay
	}
	if r.Deductions != nil {
		fields["deductions"] = *r.Deductions
	}
	if r.NetPay != nil {
		fields["net_pay"] = *r.NetPay
	}
	if r.Notes != nil {
		fields["notes"] = *r.Notes
	}
	return fields
}

// RangeQuery is the optional start_date/end_date filter shared by list,
// totals and export.
type RangeQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

type ListPayrollQuery struct {
	pagination.Query
	RangeQuery
}

type PayrollResponse struct {
	ID             int64           `json:"id"`
	EmployeeID     int64           `json:"employee_id"`
	PayPeriodStart string          `json:"pay_period_start"`
	PayPeriodEnd   string          `json:"pay_period_end"`
	GrossPay       decimal.Decimal `json:"gross_pay"`
	Deductions     decimal.Decimal `json:"deductions"`
	NetPay         decimal.Decimal `json:"net_pay"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
	UpdatedAt      string          `json:"updated_at,omitempty"`
}

type TotalsResponse struct {
	CompanyID       int64           `json:"company_id"`
	StartDate       string          `json:"start_date,omitempty"`
	EndDate         string          `json:"end_date,omitempty"`
	EntryCount      int64           `json:"entry_count"`
	TotalGrossPay   decimal.Decimal `json:"total_gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNetPay     decimal.Decimal `json:"total_net_pay"`
}

func mapToResponse(e *PayrollEntry) PayrollResponse {
	resp := PayrollResponse{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		PayPeriodStart: e.PayPeriodStart.Format(dateLayout),
		PayPeriodEnd:   e.PayPeriodEnd.Format(dateLayout),
		GrossPay:       e.GrossPay,
		Deductions:     e.Deductions,
		NetPay:         e.NetPay,
		Notes:          e.Notes,
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	if !e.UpdatedAt.IsZero() {
		resp.UpdatedAt = e.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(entries []PayrollEntry) []PayrollResponse {
	res := make([]PayrollResponse, len(entries))
	for i := range entries {
		res[i] = mapToResponse(&entries[i])
	}
	return res
}

func mapTotalsResponse(companyID int64, r RangeQuery, t Totals) TotalsResponse {
	return TotalsResponse{
		CompanyID:       companyID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		EntryCount:      t.EntryCount,
		TotalGrossPay:   t.GrossPay,
		TotalDeductions: t.Deductions,
		TotalNetPay:     t.NetPay,
	}
}
