package company

import "time"

type Company struct {
	ID           int64  `gorm:"primaryKey"`
	AccountantID *int64 `gorm:"index"`
	Name         string
	ContactName  string
	Email        string
	Phone        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Company) TableName() string {
	return "companies"
}
