package payrollrun

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware(), middleware.ContextLogger(zap.L()))
	{
		runs.GET("", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetAll)
		runs.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetByID)
		runs.GET("/:id/records", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetRecords)

		// Live preview recomputes on every call; the limiter keeps a
		// polling UI from hammering the calculation path.
		runs.GET(
			"/:id/records/:employeeId/live",
			middleware.RBACAuthorize(rbacService, "payroll_run", "read"),
			middleware.RateLimitByUser(5, 10),
			handler.GetLiveRecord,
		)

		if redisClient != nil {
			runs.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll_run", "create"),
				handler.Create,
			)
		} else {
			runs.POST("", middleware.RBACAuthorize(rbacService, "payroll_run", "create"), handler.Create)
		}
		runs.POST("/:id/calculate", middleware.RBACAuthorize(rbacService, "payroll_run", "calculate"), handler.Calculate)
		runs.POST("/:id/process", middleware.RBACAuthorize(rbacService, "payroll_run", "process"), handler.Process)
		runs.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payroll_run", "cancel"), handler.Cancel)
	}
}
