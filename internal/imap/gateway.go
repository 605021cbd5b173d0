package imap

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// InboxFetcher 供 Gateway 和上层组件共用的取信接口。
type InboxFetcher interface {
	FetchInbox(ctx context.Context, address string, cfg *domain.Domain) ([]domain.Message, error)
}

// Gateway 在取信路径上限制每个域名的连接扇出。
//
// 每个域名一组固定容量的连接槽位加一个令牌桶：
// 槽位限制同时打开的连接数，令牌桶限制新建连接的速率。
// 槽位满时请求排队等待而不是直接失败，等待受 ctx 取消约束。
type Gateway struct {
	fetcher  InboxFetcher
	maxConns int
	dialRate rate.Limit

	mu       sync.Mutex
	slots    map[string]chan struct{}
	limiters map[string]*rate.Limiter
}

// NewGateway 创建连接网关。
func NewGateway(fetcher InboxFetcher, maxConnsPerDomain int, dialsPerSecond float64) *Gateway {
	if maxConnsPerDomain <= 0 {
		maxConnsPerDomain = 4
	}
	dialRate := rate.Limit(dialsPerSecond)
	if dialsPerSecond <= 0 {
		dialRate = rate.Inf
	}

	return &Gateway{
		fetcher:  fetcher,
		maxConns: maxConnsPerDomain,
		dialRate: dialRate,
		slots:    make(map[string]chan struct{}),
		limiters: make(map[string]*rate.Limiter),
	}
}

// FetchInbox 在域名的并发与速率预算内执行一次取信。
func (g *Gateway) FetchInbox(ctx context.Context, address string, cfg *domain.Domain) ([]domain.Message, error) {
	slots, limiter := g.domainControls(cfg.Name)

	select {
	case slots <- struct{}{}:
	case <-ctx.Done():
		return nil, &ConnectError{Err: ctx.Err()}
	}
	defer func() { <-slots }()

	if err := limiter.Wait(ctx); err != nil {
		return nil, &ConnectError{Err: err}
	}

	return g.fetcher.FetchInbox(ctx, address, cfg)
}

// domainControls 返回域名对应的槽位和限速器，按需惰性创建。
func (g *Gateway) domainControls(name string) (chan struct{}, *rate.Limiter) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slots, ok := g.slots[name]
	if !ok {
		slots = make(chan struct{}, g.maxConns)
		g.slots[name] = slots
	}

	limiter, ok := g.limiters[name]
	if !ok {
		limiter = rate.NewLimiter(g.dialRate, g.maxConns)
		g.limiters[name] = limiter
	}
	return slots, limiter
}
