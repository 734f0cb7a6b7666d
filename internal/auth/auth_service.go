package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/audit"
	autherrors "go-payroll/internal/auth/errors"
	"go-payroll/internal/company"
	"go-payroll/internal/identity"
	"go-payroll/internal/mailer"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const auditTargetUser = "user"

type TokenGenerator interface {
	Generate(p identity.Principal) (string, time.Time, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	Me(ctx context.Context, p identity.Principal) (UserResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	companies company.Repository
	store     TokenStore
	tokens    TokenGenerator
	mail      mailer.Mailer
	recorder  audit.Recorder
	baseURL   string
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	companies company.Repository,
	store TokenStore,
	tokens TokenGenerator,
	mail mailer.Mailer,
	recorder audit.Recorder,
	baseURL string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		companies: companies,
		store:     store,
		tokens:    tokens,
		mail:      mail,
		recorder:  recorder,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    l,
	}
}

// Register creates the user together with its accountant row, or with a new
// company that no accountant owns yet.
func (s *service) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("register hash password failed", zap.Error(err))
		return UserResponse{}, err
	}

	user := &User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hashed),
		UserType:     identity.Role(req.UserType),
	}
	profile := Profile{}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		log.Error("register begin tx failed", zap.Error(tx.Error))
		return UserResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	switch user.UserType {
	case identity.RoleClient:
		comp := &company.Company{
			Name:        req.CompanyName,
			ContactName: strings.TrimSpace(req.FirstName + " " + req.LastName),
			Email:       user.Email,
			Phone:       req.Phone,
		}
		if err := s.companies.WithTx(tx).Create(ctx, comp); err != nil {
			log.Warn("register client company failed", zap.Error(err))
			return UserResponse{}, err
		}
		user.CompanyID = &comp.ID
		if err := qtx.CreateUser(ctx, user); err != nil {
			return UserResponse{}, err
		}

	case identity.RoleAccountant:
		if err := qtx.CreateUser(ctx, user); err != nil {
			return UserResponse{}, err
		}
		accountant := &Accountant{
			UserID:    user.ID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		}
		if err := qtx.CreateAccountant(ctx, accountant); err != nil {
			log.Error("register accountant persist failed", zap.Int64("user_id", user.ID), zap.Error(err))
			return UserResponse{}, err
		}
		profile.Accountant = accountant

	default:
		return UserResponse{}, apperror.NewValidationError([]apperror.FieldError{apperror.InvalidField("user_type")})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("register commit failed", zap.Error(err))
		return UserResponse{}, err
	}
	profile.User = *user

	s.sendVerification(ctx, user)
	s.recorder.Record(ctx, userEvent(ctx, audit.ActionUserRegister, user))
	log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("user_type", string(user.UserType)))
	return mapToResponse(profile), nil
}

func (s *service) sendVerification(ctx context.Context, user *User) {
	log := contextutil.GetLogger(ctx, s.logger)

	token, err := s.store.Issue(ctx, PurposeVerifyEmail, user.ID, VerifyTokenTTL)
	if err != nil {
		log.Error("issue verification token failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Verify your email address",
		Body: fmt.Sprintf("Confirm your email address by opening the link below. It expires in 24 hours.\n\n%s/auth/verify-email?token=%s\n",
			s.baseURL, token),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		log.Error("send verification email failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	profile, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, autherrors.ErrUserNotFound) {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if err != nil {
		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.User.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("login rejected, wrong password", zap.Int64("user_id", profile.User.ID))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if !profile.User.IsVerified {
		return LoginResponse{}, autherrors.ErrEmailNotVerified
	}

	principal, err := profile.principal()
	if err != nil {
		log.Error("login user has no valid role", zap.Int64("user_id", profile.User.ID))
		return LoginResponse{}, err
	}

	token, expiresAt, err := s.tokens.Generate(principal)
	if err != nil {
		log.Error("login token generation failed", zap.Int64("user_id", profile.User.ID), zap.Error(err))
		return LoginResponse{}, apperror.WithCause(autherrors.ErrTokenGenerationFailed, err)
	}

	return LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
		User:        mapToResponse(*profile),
	}, nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.store.Consume(ctx, PurposeVerifyEmail, token)
	if errors.Is(err, ErrTokenNotFound) {
		return autherrors.ErrInvalidVerificationToken
	}
	if err != nil {
		return err
	}

	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.MarkVerified(ctx, userID); err != nil {
		return err
	}

	s.recorder.Record(ctx, userEvent(ctx, audit.ActionUserVerifyEmail, &profile.User))
	return nil
}

// RequestPasswordReset succeeds whether or not the email is registered.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	profile, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, autherrors.ErrUserNotFound) {
			log.Error("password reset lookup failed", zap.Error(err))
		}
		return nil
	}

	token, err := s.store.Issue(ctx, PurposeResetPassword, profile.User.ID, ResetTokenTTL)
	if err != nil {
		log.Error("issue reset token failed", zap.Int64("user_id", profile.User.ID), zap.Error(err))
		return nil
	}
	msg := mailer.Message{
		To:      profile.User.Email,
		Subject: "Reset your password",
		Body: fmt.Sprintf("A password reset was requested for your account. The link below expires in 1 hour.\n\n%s/auth/reset-password?token=%s\n\nIgnore this email if you did not ask for it.\n",
			s.baseURL, token),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		log.Error("send reset email failed", zap.Int64("user_id", profile.User.ID), zap.Error(err))
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	userID, err := s.store.Consume(ctx, PurposeResetPassword, req.Token)
	if errors.Is(err, ErrTokenNotFound) {
		return autherrors.ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("reset password persist failed", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}

	profile, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		s.recorder.Record(ctx, userEvent(ctx, audit.ActionUserResetPassword, &profile.User))
	}
	return nil
}

func (s *service) Me(ctx context.Context, p identity.Principal) (UserResponse, error) {
	if !p.Valid() {
		return UserResponse{}, identity.ErrInvalidRole
	}
	profile, err := s.repo.GetByID(ctx, p.UserID())
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*profile), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// userEvent attributes an audit event to a user who may not hold a token yet.
func userEvent(ctx context.Context, action string, u *User) audit.Event {
	e := audit.NewEvent(ctx, identity.Principal{}, action, auditTargetUser, u.ID)
	e.ActorID = u.ID
	e.ActorRole = string(u.UserType)
	return e
}
