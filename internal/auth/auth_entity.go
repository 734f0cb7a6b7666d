package auth

import (
	"time"

	"go-payroll/internal/identity"
)

type User struct {
	ID           int64         `gorm:"primaryKey"`
	Email        string        `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	UserType     identity.Role `gorm:"type:varchar(20);not null"`
	CompanyID    *int64        `gorm:"index"`
	IsVerified   bool          `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}

type Accountant struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    int64  `gorm:"uniqueIndex;not null"`
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Phone     string `gorm:"type:varchar(32)"`
	CreatedAt time.Time
}

func (Accountant) TableName() string {
	return "accountants"
}

// Profile is a user with the accountant row when there is one.
type Profile struct {
	User       User
	Accountant *Accountant
}

// principal rebuilds the token identity for a persisted user.
func (p Profile) principal() (identity.Principal, error) {
	switch p.User.UserType {
	case identity.RoleAccountant:
		if p.Accountant == nil {
			return identity.Principal{}, identity.ErrInvalidRole
		}
		return identity.NewAccountant(p.User.ID, p.Accountant.ID), nil
	case identity.RoleClient:
		if p.User.CompanyID == nil {
			return identity.Principal{}, identity.ErrInvalidRole
		}
		return identity.NewClient(p.User.ID, *p.User.CompanyID), nil
	default:
		return identity.Principal{}, identity.ErrInvalidRole
	}
}
