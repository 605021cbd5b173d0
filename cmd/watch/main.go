package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tonyliuzj/mailsy/internal/config"
	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/imap"
	"github.com/tonyliuzj/mailsy/internal/logger"
	"github.com/tonyliuzj/mailsy/internal/poller"
	"github.com/tonyliuzj/mailsy/internal/storage/sqlite"
)

// watch 在终端里持续监视一个邮箱，新邮件到达时打印出来。
// 适合调试域名的 IMAP 配置，Ctrl-C 退出。
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: watch <address>")
		os.Exit(1)
	}
	address := domain.NormalizeAddress(os.Args[1])

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 打开数据库，解析地址对应的域名接入配置
	store, err := sqlite.NewStore(cfg.Database.Path)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	mailbox, err := store.GetMailboxByAddress(address)
	if err != nil {
		fmt.Printf("Failed to look up mailbox %s: %v\n", address, err)
		os.Exit(1)
	}
	mailDomain, err := store.GetDomainByName(mailbox.DomainName)
	if err != nil {
		fmt.Printf("Failed to look up domain %s: %v\n", mailbox.DomainName, err)
		os.Exit(1)
	}

	fetcher := imap.NewFetcher(cfg.IMAP.DialTimeout, log)
	gateway := imap.NewGateway(fetcher, cfg.IMAP.MaxConnsPerDomain, cfg.IMAP.DialsPerSecond)

	p := poller.New(
		gateway,
		address,
		mailDomain,
		cfg.Poller.Interval,
		cfg.Poller.MaxBackoff,
		printMessages,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s (poll every %s, Ctrl-C to stop)\n", address, cfg.Poller.Interval)
	p.Run(ctx)
	fmt.Println("\nStopped.")
}

func printMessages(messages []domain.Message) {
	for i := range messages {
		m := &messages[i]
		fmt.Printf("\n[%s] %s\n", m.Date.Format("2006-01-02 15:04:05"), m.Subject)
		fmt.Printf("  From: %s\n", m.From)
		if m.Text != "" {
			fmt.Printf("  %s\n", m.Text)
		}
	}
}
