package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PayTypeHourly = "hourly"
	PayTypeSalary = "salary"
)

type Employee struct {
	ID                int64 `gorm:"primaryKey"`
	CompanyID         int64 `gorm:"index;<-:create"`
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	SIN               string    `gorm:"column:sin"`
	DateOfBirth       time.Time `gorm:"type:date"`
	StreetAddress     string
	City              string
	Province          string
	PostalCode        string
	JobTitle          string
	HireDate          time.Time       `gorm:"type:date"`
	PayType           string
	PayRate           decimal.Decimal `gorm:"type:numeric(12,2)"`
	PaySchedule       string
	InstitutionNumber string
	TransitNumber     string
	AccountNumber     string
	IsActive          bool
	Consent           bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Employee) TableName() string {
	return "employees"
}

const (
	DocumentTD1Federal    = "td1_federal"
	DocumentTD1Provincial = "td1_provincial"
)

type Document struct {
	ID           int64 `gorm:"primaryKey"`
	EmployeeID   int64 `gorm:"index"`
	DocumentType string
	FileName     string
	StoragePath  string
	ContentType  string
	SizeBytes    int64
	CreatedAt    time.Time
}

func (Document) TableName() string {
	return "employee_documents"
}

type Offboarding struct {
	ID             int64 `gorm:"primaryKey"`
	EmployeeID     int64 `gorm:"uniqueIndex"`
	Reason         string
	LastDay        time.Time `gorm:"type:date"`
	VacationPayout string
	CallbackDate   *time.Time `gorm:"type:date"`
	Notes          string
	CreatedBy      int64
	CreatedAt      time.Time
}

func (Offboarding) TableName() string {
	return "employee_offboarding"
}
