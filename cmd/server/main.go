package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tonyliuzj/mailsy/internal/auth"
	"github.com/tonyliuzj/mailsy/internal/config"
	"github.com/tonyliuzj/mailsy/internal/health"
	"github.com/tonyliuzj/mailsy/internal/imap"
	"github.com/tonyliuzj/mailsy/internal/logger"
	"github.com/tonyliuzj/mailsy/internal/monitoring"
	"github.com/tonyliuzj/mailsy/internal/service"
	"github.com/tonyliuzj/mailsy/internal/storage/sqlite"
	httptransport "github.com/tonyliuzj/mailsy/internal/transport/http"
	"github.com/tonyliuzj/mailsy/internal/turnstile"
)

// main 是 Mailsy HTTP 服务的程序入口。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     cfg.Log.File,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()
	log.Info("starting mailsy server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 初始化 SQLite 存储
	store, err := sqlite.NewStore(cfg.Database.Path)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer store.Close()
	log.Info("database ready", zap.String("path", cfg.Database.Path))

	// 初始化服务层
	mailboxService := service.NewMailboxService(store, store)
	sessionService := service.NewSessionService(store, cfg.Session.TTL, cfg.Session.CookieSecure)
	domainService := service.NewDomainService(store)
	settingsService := service.NewSettingsService(store)
	adminService := service.NewAdminService(store)

	// 播种默认设置和管理员账户（均幂等）
	if err := settingsService.EnsureDefaults(); err != nil {
		log.Fatal("failed to seed default settings", zap.Error(err))
	}
	if err := adminService.Seed(cfg.Admin.DefaultUsername, cfg.Admin.DefaultPassword); err != nil {
		log.Fatal("failed to seed admin account", zap.Error(err))
	}

	// IMAP 接入：单连接拉取器外面包一层按域名限流的网关
	fetcher := imap.NewFetcher(cfg.IMAP.DialTimeout, log)
	gateway := imap.NewGateway(fetcher, cfg.IMAP.MaxConnsPerDomain, cfg.IMAP.DialsPerSecond)

	jwtManager := auth.NewManager(cfg.Admin.JWTSecret, cfg.Admin.JWTExpiry)
	verifier := turnstile.NewVerifier()
	metrics := monitoring.NewMetrics()
	checker := health.NewChecker(store)

	// 创建 HTTP 路由
	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:          cfg,
		MailboxService:  mailboxService,
		SessionService:  sessionService,
		DomainService:   domainService,
		SettingsService: settingsService,
		AdminService:    adminService,
		Gateway:         gateway,
		Verifier:        verifier,
		JWTManager:      jwtManager,
		Metrics:         metrics,
		Health:          checker,
		Logger:          log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 信号处理
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// 启动 HTTP 服务器
	g.Go(func() error {
		log.Info("server listening", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// 收到信号后优雅关停
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", zap.Error(err))
		return
	}
	log.Info("server stopped cleanly")
}
