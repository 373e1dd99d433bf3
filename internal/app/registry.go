package app

import (
	"database/sql"
	"strings"

	"emplystack/internal/attendance"
	"emplystack/internal/auth"
	"emplystack/internal/bootstrap"
	"emplystack/internal/company"
	"emplystack/internal/employee"
	"emplystack/internal/leave"
	"emplystack/internal/messaging/kafka"
	"emplystack/internal/payroll"
	"emplystack/internal/rbac"
	"emplystack/internal/rbac/infra"
	"emplystack/internal/shared/config"
	"emplystack/internal/shared/counter"
	"emplystack/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// services is what the worker and consumer binaries need besides HTTP.
type services struct {
	rbac    rbac.Service
	company company.Service
	payroll payroll.Service
}

func buildServices(db *sql.DB, gormDB *gorm.DB, rdb *redis.Client, cfg config.Config, logger *zap.Logger) (services, error) {
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return services{}, err
	}

	outboxRepo := kafka.NewOutboxRepository(db)

	return services{
		rbac:    rbac.NewService(rbac.NewRepository(gormDB), enforcer, logger),
		company: company.NewService(company.NewRepository(gormDB), rdb, logger),
		payroll: payroll.NewService(
			db,
			payroll.NewRepository(gormDB),
			outboxRepo,
			bootstrap.NewStdoutAuditLogger(logger),
			payroll.PayslipConfig{
				StorageDir:    cfg.PayslipStorageDir,
				PublicBaseURL: cfg.PayslipPublicBaseURL,
			},
			logger,
		),
	}, nil
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg config.Config,
	logger *zap.Logger,
) error {
	core, err := buildServices(db, gormDB, rdb, cfg, logger)
	if err != nil {
		return err
	}

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	userRepo := user.NewRepository(gormDB)

	// --- Services ---
	authService := auth.NewService(authRepo, core.rbac, auth.TokenConfig{Secret: cfg.JWTSecret}, logger)
	attendanceService := attendance.NewService(db, attendanceRepo, cfg.AttendanceLocation(), logger)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	leaveService := leave.NewService(db, leaveRepo, logger)
	userService := user.NewService(userRepo, core.rbac, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction())
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	companyHandler := company.NewHandler(core.company, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	payrollHandler := payroll.NewHandler(core.payroll, logger)
	rbacHandler := rbac.NewHandler(core.rbac)
	userHandler := user.NewHandler(userService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, cfg.JWTSecret)
		rbac.RegisterRoutes(api, rbacHandler, cfg.JWTSecret)
		company.RegisterRoutes(api, companyHandler, core.rbac, cfg.JWTSecret)
		user.RegisterRoutes(api, userHandler, core.rbac, cfg.JWTSecret, logger)
		employee.RegisterRoutes(api, employeeHandler, core.rbac, cfg.JWTSecret, logger)
		attendance.RegisterRoutes(api, attendanceHandler, core.rbac, cfg.JWTSecret, logger)
		leave.RegisterRoutes(api, leaveHandler, core.rbac, cfg.JWTSecret, logger)
		payroll.RegisterRoutes(api, payrollHandler, core.rbac, core.company, cfg.JWTSecret, rdb, logger)
	}

	// Payslip URLs point here when the public base is a local path.
	if strings.HasPrefix(cfg.PayslipPublicBaseURL, "/") {
		router.Static(cfg.PayslipPublicBaseURL, cfg.PayslipStorageDir)
	}

	return nil
}
