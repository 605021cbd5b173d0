package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig 定义 HTTP 服务器的监听配置参数
type ServerConfig struct {
	Host string // 监听地址，默认 "0.0.0.0"
	Port int    // 监听端口，默认 8080
}

// DatabaseConfig 定义 SQLite 数据库配置
type DatabaseConfig struct {
	Path string // 数据库文件路径，默认 "./data/mailsy.db"
}

// SessionConfig 定义邮箱用户会话配置
type SessionConfig struct {
	TTL          time.Duration // 会话有效期，创建时固定，无滑动续期，默认 7 天
	CookieSecure bool          // 是否给 Cookie 加 Secure 标记（生产环境开启）
}

// AdminConfig 定义管理后台配置
type AdminConfig struct {
	DefaultUsername string        // 首次启动播种的管理员用户名，默认 "admin"
	DefaultPassword string        // 首次启动播种的管理员密码，默认 "changeme"
	JWTSecret       string        // 管理员会话 JWT 签名密钥，必须至少 32 字符
	JWTExpiry       time.Duration // 管理员会话有效期，默认 12 小时
}

// IMAPConfig 定义 IMAP 取信相关配置
type IMAPConfig struct {
	DialTimeout       time.Duration // 建立连接的超时时间，默认 15s
	MaxConnsPerDomain int           // 单个域名同时打开的连接上限，默认 4
	DialsPerSecond    float64       // 单个域名每秒允许新建的连接数，默认 2
}

// PollerConfig 定义服务端收件轮询配置
type PollerConfig struct {
	Interval   time.Duration // 基础轮询周期，默认 5s
	MaxBackoff time.Duration // 连续失败后的退避上限，默认 1m
}

// CORSConfig 定义跨域资源共享 (CORS) 配置
type CORSConfig struct {
	AllowedOrigins []string // 允许的来源列表，"*" 表示允许所有来源
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 启用彩色输出和详细堆栈信息
	File        string // 日志文件路径，留空只输出到标准输出
}

// Config 是系统核心配置的根结构体，包含所有子系统的配置
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Admin    AdminConfig
	IMAP     IMAPConfig
	Poller   PollerConfig
	CORS     CORSConfig
	Log      LogConfig
}

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: MAILSY_
// 例如: MAILSY_SERVER_PORT, MAILSY_ADMIN_JWT_SECRET
func Load() (*Config, error) {
	// 尝试加载 .env 文件（静默失败，因为 .env 文件是可选的）
	loadEnvFile()

	viper.SetEnvPrefix("mailsy")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.path", "./data/mailsy.db")
	viper.SetDefault("session.ttl", "168h")
	viper.SetDefault("session.cookie_secure", false)
	viper.SetDefault("admin.default_username", "admin")
	viper.SetDefault("admin.default_password", "changeme")
	viper.SetDefault("admin.jwt_secret", "")
	viper.SetDefault("admin.jwt_expiry", "12h")
	viper.SetDefault("imap.dial_timeout", "15s")
	viper.SetDefault("imap.max_conns_per_domain", 4)
	viper.SetDefault("imap.dials_per_second", 2.0)
	viper.SetDefault("poller.interval", "5s")
	viper.SetDefault("poller.max_backoff", "1m")
	viper.SetDefault("cors.allowed_origins", "*")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
	viper.SetDefault("log.file", "")

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Session: SessionConfig{
			TTL:          viper.GetDuration("session.ttl"),
			CookieSecure: viper.GetBool("session.cookie_secure"),
		},
		Admin: AdminConfig{
			DefaultUsername: viper.GetString("admin.default_username"),
			DefaultPassword: viper.GetString("admin.default_password"),
			JWTSecret:       viper.GetString("admin.jwt_secret"),
			JWTExpiry:       viper.GetDuration("admin.jwt_expiry"),
		},
		IMAP: IMAPConfig{
			DialTimeout:       viper.GetDuration("imap.dial_timeout"),
			MaxConnsPerDomain: viper.GetInt("imap.max_conns_per_domain"),
			DialsPerSecond:    viper.GetFloat64("imap.dials_per_second"),
		},
		Poller: PollerConfig{
			Interval:   viper.GetDuration("poller.interval"),
			MaxBackoff: viper.GetDuration("poller.max_backoff"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("cors.allowed_origins")),
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
			File:        viper.GetString("log.file"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate 校验配置的合法性
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Admin.JWTSecret == "" {
		return fmt.Errorf("admin JWT secret is required (set MAILSY_ADMIN_JWT_SECRET)")
	}
	if len(c.Admin.JWTSecret) < 32 {
		return fmt.Errorf("admin JWT secret must be at least 32 characters")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.Poller.Interval <= 0 {
		return fmt.Errorf("poller interval must be positive")
	}
	if c.IMAP.MaxConnsPerDomain <= 0 {
		return fmt.Errorf("imap max conns per domain must be positive")
	}
	return nil
}

// splitList 把逗号分隔的字符串拆成去除空白的切片
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// loadEnvFile 依次尝试当前目录和父目录的 .env 文件
func loadEnvFile() {
	candidates := []string{".env", filepath.Join("..", ".env")}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}
