package main

import (
	"fmt"
	"os"

	"github.com/tonyliuzj/mailsy/internal/config"
	"github.com/tonyliuzj/mailsy/internal/service"
	"github.com/tonyliuzj/mailsy/internal/storage/sqlite"
)

// create-admin 直接对数据库重置管理员凭证，用于找回后台访问。
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: create-admin <username> <password>")
		os.Exit(1)
	}

	username := os.Args[1]
	password := os.Args[2]

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 打开数据库
	store, err := sqlite.NewStore(cfg.Database.Path)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	admins := service.NewAdminService(store)
	if err := admins.ResetCredentials(username, password); err != nil {
		fmt.Printf("Failed to reset admin credentials: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Admin credentials updated successfully!")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Database: %s\n", cfg.Database.Path)
}
