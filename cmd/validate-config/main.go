package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/diabetes-care/internal/config"
)

func main() {
	fmt.Println("Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("warning: .env not loaded: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	loc, _ := cfg.Reminders.Location()

	fmt.Println("configuration is valid")
	fmt.Printf("  Telegram token:    %s\n", maskSecret(cfg.TelegramToken))
	fmt.Printf("  Postgres:          %s@%s:%s/%s\n", cfg.DB.User, cfg.DB.Host, cfg.DB.Port, cfg.DB.DBName)
	fmt.Printf("  Redis:             %s db=%d password=%s\n", cfg.Redis.Addr(), cfg.Redis.DB, maskSecret(cfg.Redis.Password))
	fmt.Printf("  Reminder backend:  %s\n", cfg.Reminders.Backend)
	if cfg.Reminders.Backend == config.BackendDisk {
		fmt.Printf("  Reminder path:     %s\n", cfg.Reminders.DiskPath)
	}
	fmt.Printf("  Reminder timezone: %s\n", loc)
	fmt.Printf("  Notifications:     telegram=%t desktop=%t\n", cfg.Notifications.Telegram, cfg.Notifications.Desktop)
	fmt.Printf("  Metrics address:   %s\n", cfg.MetricsAddr)
	fmt.Printf("  Log:               level=%d output=%s format=%s\n", cfg.Logger.Level, cfg.Logger.OutputPath, cfg.Logger.Format)
}

func maskSecret(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
