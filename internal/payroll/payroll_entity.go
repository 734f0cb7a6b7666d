package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollEntry is one pay period for one employee. The period bounds are
// fixed at creation; the amounts stay editable.
type PayrollEntry struct {
	ID             int64           `gorm:"primaryKey"`
	EmployeeID     int64           `gorm:"not null;index;<-:create"`
	PayPeriodStart time.Time       `gorm:"type:date;not null;<-:create"`
	PayPeriodEnd   time.Time       `gorm:"type:date;not null;<-:create"`
	GrossPay       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Deductions     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	NetPay         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Notes          string          `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PayrollEntry) TableName() string {
	return "payroll_entries"
}

// ExportRow is a payroll entry joined with the employee it belongs to.
type ExportRow struct {
	PayrollEntry
	FirstName string
	LastName  string
}

// Totals aggregates the entries of one company.
type Totals struct {
	EntryCount int64
	GrossPay   decimal.Decimal
	Deductions decimal.Decimal
	NetPay     decimal.Decimal
}

// Period is an optional inclusive date range. An entry falls inside when its
// whole pay period does.
type Period struct {
	Start *time.Time
	End   *time.Time
}

func (p Period) IsZero() bool {
	return p.Start == nil && p.End == nil
}
