package app

import (
	"database/sql"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-payroll/internal/attendance"
	"go-payroll/internal/bootstrap"
	"go-payroll/internal/employee"
	"go-payroll/internal/finance"
	"go-payroll/internal/leave"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/salarycomponent"
	"go-payroll/internal/settings"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/workcalendar"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	settingsRepo := settings.NewRepository(gormDB)
	componentRepo := salarycomponent.NewRepository(gormDB)
	financeRepo := finance.NewRepository(gormDB)
	calendarRepo := workcalendar.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	payrollRepo := payrollrun.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	auditLogger := bootstrap.NewStdoutAuditLogger()
	calendarService := workcalendar.NewService(calendarRepo, settingsRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, employeeRepo)
	payrollService := payrollrun.NewService(db, payrollRepo, payrollrun.Collaborators{
		Employees:  employeeRepo,
		Attendance: attendanceRepo,
		Leaves:     leaveRepo,
		Settings:   settingsRepo,
		Components: componentRepo,
		Finance:    financeRepo,
		Calendar:   calendarService,
		Counter:    counterRepo,
	}, outboxRepo, auditLogger)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	payrollHandler := payrollrun.NewHandlerWithRedis(payrollService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		payrollrun.RegisterRoutes(api, payrollHandler, rbacService, rdb)
	}

	return nil
}
