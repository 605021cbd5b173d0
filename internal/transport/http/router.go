package httptransport

import (
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tonyliuzj/mailsy/internal/auth"
	"github.com/tonyliuzj/mailsy/internal/config"
	"github.com/tonyliuzj/mailsy/internal/health"
	"github.com/tonyliuzj/mailsy/internal/imap"
	"github.com/tonyliuzj/mailsy/internal/middleware"
	"github.com/tonyliuzj/mailsy/internal/monitoring"
	"github.com/tonyliuzj/mailsy/internal/service"
	"github.com/tonyliuzj/mailsy/internal/turnstile"
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config          *config.Config
	MailboxService  *service.MailboxService
	SessionService  *service.SessionService
	DomainService   *service.DomainService
	SettingsService *service.SettingsService
	AdminService    *service.AdminService
	Gateway         imap.InboxFetcher
	Verifier        *turnstile.Verifier
	JWTManager      *auth.Manager
	Metrics         *monitoring.Metrics
	Health          *health.Checker
	Logger          *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics(deps.Metrics))

	// 请求体大小限制 1MB，本服务没有大负载接口
	router.Use(middleware.BodySizeLimit(1 << 20))

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 如果允许所有来源，则需清空凭证支持。
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	// 创建处理器
	publicHandler := NewPublicHandler(deps.DomainService, deps.SettingsService, deps.Logger)
	mailboxHandler := NewMailboxHandler(
		deps.MailboxService,
		deps.SessionService,
		deps.SettingsService,
		deps.Verifier,
		deps.Metrics,
		deps.Logger,
	)
	inboxHandler := NewInboxHandler(deps.DomainService, deps.Gateway, deps.Metrics, deps.Logger)
	adminHandler := NewAdminHandler(
		deps.AdminService,
		deps.DomainService,
		deps.SettingsService,
		deps.JWTManager,
		deps.Config.Session.CookieSecure,
		deps.Logger,
	)

	// 创建中间件
	sessionAuth := middleware.SessionAuth(deps.SessionService, deps.MailboxService, deps.Logger)
	adminPathGuard := middleware.AdminPathGuard(deps.SettingsService)
	adminAuth := middleware.AdminAuth(deps.JWTManager)

	// 健康检查与指标
	router.GET("/healthz/live", gin.WrapF(deps.Health.LiveHandler()))
	router.GET("/healthz/ready", gin.WrapF(deps.Health.ReadyHandler()))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := router.Group("/api")
	{
		// 公开接口
		api.GET("/info", publicHandler.GetInfo)
		api.GET("/domains", publicHandler.ListDomains)
		api.POST("/check-email", mailboxHandler.CheckEmail)
		api.POST("/create-email", mailboxHandler.CreateEmail)
		api.POST("/login", mailboxHandler.Login)
		api.POST("/logout", mailboxHandler.Logout)

		// 需要邮箱会话的接口
		authed := api.Group("", sessionAuth)
		{
			authed.POST("/emails", inboxHandler.FetchEmails)
			authed.GET("/account/info", mailboxHandler.AccountInfo)
			authed.POST("/account/regenerate-passkey", mailboxHandler.RegeneratePasskey)
			authed.POST("/account/delete", mailboxHandler.DeleteAccount)
		}

		// 管理后台，入口路径段可配置，不匹配时返回 404
		admin := api.Group("/:adminPath", adminPathGuard)
		{
			admin.POST("/login", adminHandler.Login)
			admin.POST("/logout", adminHandler.Logout)

			adminAuthed := admin.Group("", adminAuth)
			{
				adminAuthed.GET("/me", adminHandler.Me)
				adminAuthed.POST("/change-username", adminHandler.ChangeUsername)
				adminAuthed.POST("/change-password", adminHandler.ChangePassword)

				adminAuthed.GET("/domains", adminHandler.ListDomains)
				adminAuthed.POST("/domains", adminHandler.CreateDomain)
				adminAuthed.PUT("/domains/:id", adminHandler.UpdateDomain)
				adminAuthed.DELETE("/domains/:id", adminHandler.DeleteDomain)

				adminAuthed.GET("/settings", adminHandler.GetSettings)
				adminAuthed.POST("/settings", adminHandler.UpdateSettings)
				adminAuthed.GET("/turnstile", adminHandler.GetTurnstile)
				adminAuthed.POST("/turnstile", adminHandler.UpdateTurnstile)
				adminAuthed.GET("/config-path", adminHandler.GetAdminPath)
				adminAuthed.POST("/config-path", adminHandler.UpdateAdminPath)
			}
		}
	}

	return router
}
