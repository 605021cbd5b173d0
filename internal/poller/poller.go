// Package poller 实现收件箱的周期轮询。
//
// 每个被监视的邮箱对应一个 Poller：按固定周期通过取信网关
// 拉取收件，用 UID 集合去重，只把没见过的邮件交给回调。
// 连续失败时按带抖动的指数退避放缓节奏，成功后恢复基础周期。
package poller

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/imap"
)

// UpdateFunc 接收一批此前未见过的新邮件，按日期从新到旧排列。
type UpdateFunc func(messages []domain.Message)

// Poller 监视单个邮箱地址的收件。
type Poller struct {
	fetcher    imap.InboxFetcher
	address    string
	domainCfg  *domain.Domain
	interval   time.Duration
	maxBackoff time.Duration
	deliver    UpdateFunc
	log        *zap.Logger

	seen     map[uint32]struct{}
	failures int
}

// New 创建邮箱轮询器。
func New(
	fetcher imap.InboxFetcher,
	address string,
	domainCfg *domain.Domain,
	interval, maxBackoff time.Duration,
	deliver UpdateFunc,
	log *zap.Logger,
) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxBackoff < interval {
		maxBackoff = time.Minute
	}
	return &Poller{
		fetcher:    fetcher,
		address:    address,
		domainCfg:  domainCfg,
		interval:   interval,
		maxBackoff: maxBackoff,
		deliver:    deliver,
		log:        log,
		seen:       make(map[uint32]struct{}),
	}
}

// Run 启动轮询循环，阻塞直到 ctx 被取消。
//
// 取消是唯一的退出方式：拉取失败只影响下一次等待时长，
// 循环本身永不终止。
func (p *Poller) Run(ctx context.Context) {
	timer := time.NewTimer(0) // 启动后立即执行第一次拉取
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		p.tick(ctx)
		timer.Reset(p.nextDelay())
	}
}

// tick 执行一次拉取并投递新邮件。
func (p *Poller) tick(ctx context.Context) {
	messages, err := p.fetcher.FetchInbox(ctx, p.address, p.domainCfg)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.failures++
		p.log.Warn("inbox poll failed",
			zap.String("address", p.address),
			zap.Int("consecutive_failures", p.failures),
			zap.Error(err),
		)
		return
	}
	p.failures = 0

	fresh := make([]domain.Message, 0, len(messages))
	for _, message := range messages {
		if _, ok := p.seen[message.UID]; ok {
			continue
		}
		p.seen[message.UID] = struct{}{}
		fresh = append(fresh, message)
	}

	if len(fresh) > 0 && p.deliver != nil {
		p.deliver(fresh)
	}
}

// nextDelay 计算下一次拉取前的等待时长。
//
// 成功后为基础周期；连续失败后按 2 的幂放大，封顶 maxBackoff，
// 再叠加 ±20% 抖动避免多个轮询器同步冲击服务器。
func (p *Poller) nextDelay() time.Duration {
	delay := p.interval
	if p.failures > 0 {
		backoff := p.interval << uint(p.failures-1)
		if backoff > p.maxBackoff || backoff <= 0 {
			backoff = p.maxBackoff
		}
		delay = backoff
	}

	jitter := 1 + (rand.Float64()*0.4 - 0.2)
	return time.Duration(float64(delay) * jitter)
}
