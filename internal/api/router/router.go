package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cmcs/backend/config"
	"cmcs/backend/internal/api/handler"
	"cmcs/backend/internal/api/middleware"
	"cmcs/backend/pkg/jwt"
	"cmcs/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Upload.MaxBodySize))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 报账模块
			claims := authorized.Group("/claims")
			{
				claims.POST("", middleware.RoleAuth("lecturer"), h.Claim.Submit)
				claims.GET("/mine", middleware.RoleAuth("lecturer"), h.Claim.ListMine)
				claims.GET("/pending", middleware.RoleAuth("coordinator", "manager"), h.Claim.ListPending)
				claims.GET("/:id", h.Claim.GetClaim)
				claims.POST("/:id/decision", middleware.RoleAuth("coordinator", "manager"), h.Claim.Decide)
				claims.PUT("/:id", middleware.RoleAuth("hr"), h.Claim.HRUpdate)
				claims.GET("/:id/documents", h.Document.ListByClaim)
			}

			// 附件模块
			documents := authorized.Group("/documents")
			{
				documents.GET("/:id/download", h.Document.Download)
				documents.DELETE("/:id", middleware.RoleAuth("hr"), h.Document.Deactivate)
			}

			// 统计分析模块
			authorized.GET("/analytics/dashboard",
				middleware.RoleAuth("coordinator", "manager", "hr"), h.Analytics.DashboardStats)

			// 报表导出模块
			authorized.GET("/reports/claims",
				middleware.RoleAuth("manager", "hr"), h.Report.ExportClaims)

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListMine)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 用户管理模块（HR）
			users := authorized.Group("/users")
			users.Use(middleware.RoleAuth("hr"))
			{
				users.POST("", h.User.CreateUser)
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
			}
			authorized.PUT("/lecturers/:id/rate", middleware.RoleAuth("hr"), h.User.UpdateHourlyRate)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
