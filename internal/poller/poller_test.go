package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// scriptedFetcher 每次调用按脚本返回下一批结果
type scriptedFetcher struct {
	batches [][]domain.Message
	errs    []error
	calls   int
}

func (f *scriptedFetcher) FetchInbox(ctx context.Context, address string, cfg *domain.Domain) ([]domain.Message, error) {
	i := f.calls
	f.calls++
	if i >= len(f.batches) {
		i = len(f.batches) - 1
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return f.batches[i], err
}

func message(uid uint32) domain.Message {
	return domain.Message{UID: uid, Subject: "msg", Date: time.Now()}
}

func newTestPoller(fetcher *scriptedFetcher, deliver UpdateFunc) *Poller {
	cfg := &domain.Domain{Name: "temp.mail", IMAPHost: "imap.temp.mail"}
	return New(fetcher, "user@temp.mail", cfg, 5*time.Second, time.Minute, deliver, zap.NewNop())
}

func TestPoller_DeliversOnlyUnseenMessages(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]domain.Message{
			{message(1), message(2)},
			{message(2), message(3)}, // 重叠的结果集
			{message(3)},
		},
	}

	var delivered [][]domain.Message
	p := newTestPoller(fetcher, func(messages []domain.Message) {
		delivered = append(delivered, messages)
	})

	ctx := context.Background()
	p.tick(ctx)
	p.tick(ctx)
	p.tick(ctx)

	// 三次轮询，第三次没有新邮件，不触发投递
	assert.Len(t, delivered, 2)
	assert.Equal(t, []uint32{1, 2}, uids(delivered[0]))
	assert.Equal(t, []uint32{3}, uids(delivered[1]))

	// 同一 UID 在整个生命周期内只投递一次
	seen := map[uint32]int{}
	for _, batch := range delivered {
		for _, uid := range uids(batch) {
			seen[uid]++
		}
	}
	for uid, count := range seen {
		assert.Equal(t, 1, count, "uid %d delivered more than once", uid)
	}
}

func TestPoller_BackoffGrowsAndResets(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]domain.Message{nil, nil, nil, {message(1)}},
		errs: []error{
			errors.New("dial refused"),
			errors.New("dial refused"),
			errors.New("dial refused"),
			nil,
		},
	}

	p := newTestPoller(fetcher, nil)
	ctx := context.Background()

	p.tick(ctx)
	assert.Equal(t, 1, p.failures)
	assertDelayNear(t, p.nextDelay(), 5*time.Second)

	p.tick(ctx)
	assert.Equal(t, 2, p.failures)
	assertDelayNear(t, p.nextDelay(), 10*time.Second)

	p.tick(ctx)
	assert.Equal(t, 3, p.failures)
	assertDelayNear(t, p.nextDelay(), 20*time.Second)

	// 成功后失败计数归零，回到基础周期
	p.tick(ctx)
	assert.Zero(t, p.failures)
	assertDelayNear(t, p.nextDelay(), 5*time.Second)
}

func TestPoller_BackoffCapped(t *testing.T) {
	fetcher := &scriptedFetcher{
		batches: [][]domain.Message{nil},
		errs:    []error{errors.New("dial refused")},
	}

	p := newTestPoller(fetcher, nil)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		p.tick(ctx)
	}

	// 封顶在 maxBackoff，抖动最多 ±20%
	delay := p.nextDelay()
	assert.LessOrEqual(t, delay, time.Duration(float64(time.Minute)*1.2)+time.Millisecond)
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	fetcher := &scriptedFetcher{batches: [][]domain.Message{nil}}
	p := newTestPoller(fetcher, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// 让第一次立即执行的拉取有机会发生
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
	assert.GreaterOrEqual(t, fetcher.calls, 1)
}

func uids(messages []domain.Message) []uint32 {
	result := make([]uint32, 0, len(messages))
	for _, m := range messages {
		result = append(result, m.UID)
	}
	return result
}

func assertDelayNear(t *testing.T, delay, base time.Duration) {
	t.Helper()
	low := time.Duration(float64(base) * 0.79)
	high := time.Duration(float64(base) * 1.21)
	assert.GreaterOrEqual(t, delay, low)
	assert.LessOrEqual(t, delay, high)
}
