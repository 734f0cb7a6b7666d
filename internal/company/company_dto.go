package company

import "time"

type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	ContactName string `json:"contact_name" binding:"omitempty,max=255"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Phone       string `json:"phone" binding:"omitempty,max=32"`
	Address     string `json:"address" binding:"omitempty,max=500"`
}

// UpdateCompanyRequest is a partial patch; nil fields are left untouched.
type UpdateCompanyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=255"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	Phone       *string `json:"phone" binding:"omitempty,max=32"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
}

func (r UpdateCompanyRequest) fields() map[string]any {
	fields := make(map[string]any)
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.ContactName != nil {
		fields["contact_name"] = *r.ContactName
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	if r.Phone != nil {
		fields["phone"] = *r.Phone
	}
	if r.Address != nil {
		fields["address"] = *r.Address
	}
	return fields
}

type CompanyResponse struct {
	ID           int64     `json:"id"`
	AccountantID *int64    `json:"accountant_id"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contact_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func mapToResponse(c *Company) CompanyResponse {
	return CompanyResponse{
		ID:           c.ID,
		AccountantID: c.AccountantID,
		Name:         c.Name,
		ContactName:  c.ContactName,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
