package app

import (
	"go-payroll/internal/audit"
	"go-payroll/internal/auth"
	"go-payroll/internal/company"
	"go-payroll/internal/config"
	"go-payroll/internal/employee"
	"go-payroll/internal/identity"
	"go-payroll/internal/mailer"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/policy"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router gin.IRouter,
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	recorder audit.Recorder,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(db)
	companyRepo := company.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(db)

	// --- Authorization core ---
	authz := policy.NewEngine(policy.NewStore(db), logger)
	enforcer, err := infra.NewEnforcer(infra.DefaultPolicy)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)
	issuer := identity.NewTokenIssuer(cfg.JWT.Secret)
	authenticate := middleware.Authenticate(issuer)

	// --- Collaborators ---
	documents, err := storage.NewLocalStore(cfg.Storage.DocumentDir)
	if err != nil {
		return err
	}
	mail := mailer.New(cfg.SMTP, logger)
	tokenStore := auth.NewRedisTokenStore(rdb)

	// --- Services ---
	authService := auth.NewService(db, authRepo, companyRepo, tokenStore, issuer, mail, recorder, cfg.App.BaseURL, logger)
	companyService := company.NewService(companyRepo, authz, recorder, logger)
	employeeService := employee.NewService(db, employeeRepo, outboxRepo, documents, authz, recorder, logger)
	payrollService := payroll.NewService(db, payrollRepo, authz, recorder, rdb, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	companyHandler := company.NewHandler(companyService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	payrollHandler := payroll.NewHandler(payrollService, logger)

	// --- Routes Registration ---
	auth.RegisterRoutes(router, authHandler, authenticate, logger)
	company.RegisterRoutes(router, companyHandler, authenticate, rbacService, logger)
	employee.RegisterRoutes(router, employeeHandler, authenticate, logger)
	payroll.RegisterRoutes(router, payrollHandler, authenticate, rdb, logger)

	return nil
}
