// Package health 基于 heptiolabs/healthcheck 暴露存活与就绪探针。
package health

import (
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"

	"github.com/tonyliuzj/mailsy/internal/storage"
)

// Checker 健康检查器
type Checker struct {
	handler healthcheck.Handler
}

// NewChecker 创建健康检查器并挂上数据库检查。
func NewChecker(store storage.Store) *Checker {
	handler := healthcheck.NewHandler()

	// 数据库必须可用才算就绪
	handler.AddReadinessCheck("database", func() error {
		return store.Health()
	})

	// goroutine 数量异常增长通常意味着 IMAP 连接泄漏
	handler.AddLivenessCheck("goroutine-count", healthcheck.GoroutineCountCheck(500))

	// 留出周期性检查的余量，避免探针被慢查询卡死
	handler.AddLivenessCheck("database-ping", healthcheck.Timeout(func() error {
		return store.Health()
	}, 2*time.Second))

	return &Checker{handler: handler}
}

// LiveHandler 存活探针
func (c *Checker) LiveHandler() http.HandlerFunc {
	return c.handler.LiveEndpoint
}

// ReadyHandler 就绪探针
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return c.handler.ReadyEndpoint
}
