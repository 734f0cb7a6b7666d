package tenant

import (
	"go-payroll/internal/identity"

	"gorm.io/gorm"
)

// Scope restricts rows whose owning company is held in companyColumn to the
// companies p may see. The visible set is the same one the policy engine
// would allow row by row.
func Scope(p identity.Principal, companyColumn string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if accountantID, ok := p.AccountantID(); ok {
			return db.Where(companyColumn+" IN (SELECT id FROM companies WHERE accountant_id = ?)", accountantID)
		}
		if companyID, ok := p.CompanyID(); ok {
			return db.Where(companyColumn+" = ?", companyID)
		}
		return db.Where("1 = 0")
	}
}

// Companies is Scope for the companies table itself.
func Companies(p identity.Principal) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if accountantID, ok := p.AccountantID(); ok {
			return db.Where("companies.accountant_id = ?", accountantID)
		}
		if companyID, ok := p.CompanyID(); ok {
			return db.Where("companies.id = ?", companyID)
		}
		return db.Where("1 = 0")
	}
}
