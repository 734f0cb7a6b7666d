package auth

import (
	"context"
	"errors"
	"strings"

	autherrors "go-payroll/internal/auth/errors"
	"go-payroll/internal/identity"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateUser(ctx context.Context, user *User) error
	CreateAccountant(ctx context.Context, accountant *Accountant) error
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	GetByID(ctx context.Context, id int64) (*Profile, error)
	MarkVerified(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateUser(ctx context.Context, user *User) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *repository) CreateAccountant(ctx context.Context, accountant *Accountant) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(accountant).Error)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&user).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return r.withAccountant(ctx, user)
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Profile, error) {
	var user User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, mapRepositoryError(err)
	}
	return r.withAccountant(ctx, user)
}

func (r *repository) withAccountant(ctx context.Context, user User) (*Profile, error) {
	profile := &Profile{User: user}
	if user.UserType != identity.RoleAccountant {
		return profile, nil
	}

	var accountant Accountant
	err := r.db.WithContext(ctx).Where("user_id = ?", user.ID).Take(&accountant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return profile, nil
	}
	if err != nil {
		return nil, err
	}
	profile.Accountant = &accountant
	return profile, nil
}

func (r *repository) MarkVerified(ctx context.Context, userID int64) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("is_verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return autherrors.ErrUserNotFound
	}
	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return autherrors.ErrUserNotFound
	}
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return autherrors.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return autherrors.ErrEmailAlreadyRegistered
	}
	return err
}
