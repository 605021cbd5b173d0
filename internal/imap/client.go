// Package imap 实现对共享收件账户的取信适配器。
//
// 每次调用打开一条短生命周期连接：登录、只读打开 INBOX、
// 按收件人搜索、取回并解析命中的邮件、注销。连接不做复用，
// 并发上限由 Gateway 控制。
package imap

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sort"
	"strconv"
	"time"

	goimap "github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// Fetcher 按域名配置打开 IMAP 连接并取回某个地址的收件。
type Fetcher struct {
	dialTimeout time.Duration
	log         *zap.Logger
}

// NewFetcher 创建取信适配器。
func NewFetcher(dialTimeout time.Duration, log *zap.Logger) *Fetcher {
	if dialTimeout <= 0 {
		dialTimeout = 15 * time.Second
	}
	return &Fetcher{
		dialTimeout: dialTimeout,
		log:         log,
	}
}

// FetchInbox 取回发给 address 的全部邮件，按日期从新到旧排序。
//
// 服务器端按 To 头做包含匹配粗筛，取回后再按收件人地址做
// 精确匹配过滤，避免共享前缀的邮箱互相看到对方的邮件。
// 单封邮件解析失败只丢弃该封，不影响整批结果。
func (f *Fetcher) FetchInbox(ctx context.Context, address string, cfg *domain.Domain) ([]domain.Message, error) {
	client, err := f.connect(cfg)
	if err != nil {
		return nil, &ConnectError{Err: err}
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select("INBOX", &goimap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, &SearchError{Err: fmt.Errorf("selecting INBOX: %w", err)}
	}

	criteria := &goimap.SearchCriteria{
		Header: []goimap.SearchCriteriaHeaderField{
			{Key: "To", Value: address},
		},
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, &SearchError{Err: err}
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return []domain.Message{}, nil
	}

	messages, err := f.fetchMessages(client, uids, address)
	if err != nil {
		return nil, err
	}

	// 统一按日期从新到旧排序
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Date.After(messages[j].Date)
	})
	return messages, nil
}

// connect 建立连接并登录。imap_tls 为真时走 IMAPS，否则明文连接。
func (f *Fetcher) connect(cfg *domain.Domain) (*imapclient.Client, error) {
	addr := net.JoinHostPort(cfg.IMAPHost, strconv.Itoa(cfg.IMAPPort))

	dialer := net.Dialer{Timeout: f.dialTimeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing: %w", err)
	}

	if cfg.IMAPTLS {
		// 握手期间沿用拨号超时，完成后清除
		_ = conn.SetDeadline(time.Now().Add(f.dialTimeout))
		tlsConn := tls.Client(conn, &tls.Config{ServerName: cfg.IMAPHost})
		if err := tlsConn.Handshake(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("tls handshake: %w", err)
		}
		_ = tlsConn.SetDeadline(time.Time{})
		conn = tlsConn
	}

	client := imapclient.New(conn, &imapclient.Options{})
	if err := client.Login(cfg.IMAPUser, cfg.IMAPPassword).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authenticating: %w", err)
	}
	return client, nil
}

// fetchMessages 取回每个 UID 的信封和完整报文并解析。
func (f *Fetcher) fetchMessages(client *imapclient.Client, uids []goimap.UID, address string) ([]domain.Message, error) {
	bodySection := &goimap.FetchItemBodySection{Peek: true}
	fetchOptions := &goimap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*goimap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(goimap.UIDSetNum(uids...), fetchOptions)
	defer fetchCmd.Close()

	messages := make([]domain.Message, 0, len(uids))
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			// 单封收集失败丢弃该封，继续处理后续邮件
			f.log.Warn("dropping unreadable message", zap.Error(err))
			continue
		}

		if !envelopeMatches(buf.Envelope, address) {
			continue
		}

		parsed, err := parseMessage(buf, bodySection)
		if err != nil {
			f.log.Warn("dropping unparseable message",
				zap.Uint32("uid", uint32(buf.UID)),
				zap.Error(err),
			)
			continue
		}
		messages = append(messages, parsed)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, &FetchError{Err: err}
	}
	return messages, nil
}

// envelopeMatches 判断信封的 To/Cc 里是否出现精确匹配的收件地址。
func envelopeMatches(env *goimap.Envelope, address string) bool {
	if env == nil {
		return false
	}
	for _, recipients := range [][]goimap.Address{env.To, env.Cc} {
		for _, recipient := range recipients {
			if domain.NormalizeAddress(recipient.Addr()) == domain.NormalizeAddress(address) {
				return true
			}
		}
	}
	return false
}
