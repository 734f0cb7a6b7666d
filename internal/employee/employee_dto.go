package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// CreateEmployeeRequest is bound from the multipart form that also carries
// the two TD1 documents.
type CreateEmployeeRequest struct {
	CompanyID         *int64           `json:"company_id" form:"company_id" binding:"omitempty,gt=0"`
	FirstName         string           `json:"first_name" form:"first_name" binding:"required,max=100"`
	LastName          string           `json:"last_name" form:"last_name" binding:"required,max=100"`
	Email             string           `json:"email" form:"email" binding:"required,email,max=255"`
	Phone             string           `json:"phone" form:"phone" binding:"omitempty,max=32"`
	SIN               string           `json:"sin" form:"sin" binding:"required,len=9,number"`
	DateOfBirth       string           `json:"date_of_birth" form:"date_of_birth" binding:"required,datetime=2006-01-02"`
	StreetAddress     string           `json:"street_address" form:"street_address" binding:"required,max=255"`
	City              string           `json:"city" form:"city" binding:"required,max=100"`
	Province          string           `json:"province" form:"province" binding:"required,oneof=AB BC MB NB NL NS NT NU ON PE QC SK YT"`
	PostalCode        string           `json:"postal_code" form:"postal_code" binding:"required,max=10"`
	JobTitle          string           `json:"job_title" form:"job_title" binding:"omitempty,max=100"`
	HireDate          string           `json:"hire_date" form:"hire_date" binding:"required,datetime=2006-01-02"`
	PayType           string           `json:"pay_type" form:"pay_type" binding:"required,oneof=hourly salary"`
	PayRate           *decimal.Decimal `json:"pay_rate" form:"pay_rate" binding:"required,gt=0"`
	PaySchedule       string           `json:"pay_schedule" form:"pay_schedule" binding:"required,oneof=weekly biweekly semi_monthly monthly"`
	InstitutionNumber string           `json:"institution_number" form:"institution_number" binding:"required,len=3,number"`
	TransitNumber     string           `json:"transit_number" form:"transit_number" binding:"required,len=5,number"`
	AccountNumber     string           `json:"account_number" form:"account_number" binding:"required,min=7,max=12,number"`
	Consent           *bool            `json:"consent" form:"consent" binding:"required"`
}

// UpdateEmployeeRequest is a partial patch. company_id is not patchable.
type UpdateEmployeeRequest struct {
	FirstName         *string          `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName          *string          `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email             *string          `json:"email" binding:"omitempty,email,max=255"`
	Phone             *string          `json:"phone" binding:"omitempty,max=32"`
	SIN               *string          `json:"sin" binding:"omitempty,len=9,number"`
	DateOfBirth       *string          `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	StreetAddress     *string          `json:"street_address" binding:"omitempty,min=1,max=255"`
	City              *string          `json:"city" binding:"omitempty,min=1,max=100"`
	Province          *string          `json:"province" binding:"omitempty,oneof=AB BC MB NB NL NS NT NU ON PE QC SK YT"`
	PostalCode        *string          `json:"postal_code" binding:"omitempty,min=1,max=10"`
	JobTitle          *string          `json:"job_title" binding:"omitempty,max=100"`
	HireDate          *string          `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	PayType           *string          `json:"pay_type" binding:"omitempty,oneof=hourly salary"`
	PayRate           *decimal.Decimal `json:"pay_rate" binding:"omitempty,gt=0"`
	PaySchedule       *string          `json:"pay_schedule" binding:"omitempty,oneof=weekly biweekly semi_monthly monthly"`
	InstitutionNumber *string          `json:"institution_number" binding:"omitempty,len=3,number"`
	TransitNumber     *string          `json:"transit_number" binding:"omitempty,len=5,number"`
	AccountNumber     *string          `json:"account_number" binding:"omitempty,min=7,max=12,number"`
	Consent           *bool            `json:"consent"`
}

func (r UpdateEmployeeRequest) fields() (map[string]any, error) {
	fields := make(map[string]any)
	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	setDate := func(column string, v *string) error {
		if v == nil {
			return nil
		}
		t, err := parseDate(column, *v)
		if err != nil {
			return err
		}
		fields[column] = t
		return nil
	}

	setString("first_name", r.FirstName)
	setString("last_name", r.LastName)
	setString("email", r.Email)
	setString("phone", r.Phone)
	setString("sin", r.SIN)
	setString("street_address", r.StreetAddress)
	setString("city", r.City)
	setString("province", r.Province)
	setString("postal_code", r.PostalCode)
	setString("job_title", r.JobTitle)
	setString("pay_type", r.PayType)
	setString("pay_schedule", r.PaySchedule)
	setString("institution_number", r.InstitutionNumber)
	setString("transit_number", r.TransitNumber)
	setString("account_number", r.AccountNumber)
	if err := setDate("date_of_birth", r.DateOfBirth); err != nil {
		return nil, err
	}
	if err := setDate("hire_date", r.HireDate); err != nil {
		return nil, err
	}
	if r.PayRate != nil {
		fields["pay_rate"] = *r.PayRate
	}
	if r.Consent != nil {
		fields["consent"] = *r.Consent
	}
	return fields, nil
}

type OffboardRequest struct {
	Reason         string  `json:"reason" binding:"required,oneof=quit dismissal layoff retirement end_of_contract other"`
	LastDay        string  `json:"last_day" binding:"required,datetime=2006-01-02"`
	VacationPayout string  `json:"vacation_payout" binding:"required,oneof=pay_on_final_cheque pay_on_next_run no_payout"`
	CallbackDate   *string `json:"callback_date" binding:"omitempty,datetime=2006-01-02"`
	Notes          string  `json:"notes" binding:"omitempty,max=2000"`
}

type DocumentResponse struct {
	ID           int64     `json:"id"`
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

type EmployeeResponse struct {
	ID                int64              `json:"id"`
	CompanyID         int64              `json:"company_id"`
	FirstName         string             `json:"first_name"`
	LastName          string             `json:"last_name"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	SIN               string             `json:"sin"`
	DateOfBirth       string             `json:"date_of_birth"`
	StreetAddress     string             `json:"street_address"`
	City              string             `json:"city"`
	Province          string             `json:"province"`
	PostalCode        string             `json:"postal_code"`
	JobTitle          string             `json:"job_title"`
	HireDate          string             `json:"hire_date"`
	PayType           string             `json:"pay_type"`
	PayRate           decimal.Decimal    `json:"pay_rate"`
	PaySchedule       string             `json:"pay_schedule"`
	InstitutionNumber string             `json:"institution_number"`
	TransitNumber     string             `json:"transit_number"`
	AccountNumber     string             `json:"account_number"`
	IsActive          bool               `json:"is_active"`
	Consent           bool               `json:"consent"`
	Documents         []DocumentResponse `json:"documents,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

type OffboardingResponse struct {
	ID             int64     `json:"id"`
	EmployeeID     int64     `json:"employee_id"`
	Reason         string    `json:"reason"`
	LastDay        string    `json:"last_day"`
	VacationPayout string    `json:"vacation_payout"`
	CallbackDate   *string   `json:"callback_date"`
	Notes          string    `json:"notes,omitempty"`
	CreatedBy      int64     `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

func mapToResponse(e *Employee, docs []Document) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                e.ID,
		CompanyID:         e.CompanyID,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		Email:             e.Email,
		Phone:             e.Phone,
		SIN:               e.SIN,
		DateOfBirth:       e.DateOfBirth.Format(dateLayout),
		StreetAddress:     e.StreetAddress,
		City:              e.City,
		Province:          e.Province,
		PostalCode:        e.PostalCode,
		JobTitle:          e.JobTitle,
		HireDate:          e.HireDate.Format(dateLayout),
		PayType:           e.PayType,
		PayRate:           e.PayRate,
		PaySchedule:       e.PaySchedule,
		InstitutionNumber: e.InstitutionNumber,
		TransitNumber:     e.TransitNumber,
		AccountNumber:     e.AccountNumber,
		IsActive:          e.IsActive,
		Consent:           e.Consent,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, DocumentResponse{
			ID:           d.ID,
			DocumentType: d.DocumentType,
			FileName:     d.FileName,
			ContentType:  d.ContentType,
			SizeBytes:    d.SizeBytes,
			CreatedAt:    d.CreatedAt,
		})
	}
	return resp
}

func mapOffboardingResponse(o *Offboarding) OffboardingResponse {
	resp := OffboardingResponse{
		ID:             o.ID,
		EmployeeID:     o.EmployeeID,
		Reason:         o.Reason,
		LastDay:        o.LastDay.Format(dateLayout),
		VacationPayout: o.VacationPayout,
		Notes:          o.Notes,
		CreatedBy:      o.CreatedBy,
		CreatedAt:      o.CreatedAt,
	}
	if o.CallbackDate != nil {
		cb := o.CallbackDate.Format(dateLayout)
		resp.CallbackDate = &cb
	}
	return resp
}
