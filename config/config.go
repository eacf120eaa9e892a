package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ezBadminton/tourneymgr/storage"
	"github.com/joho/godotenv"
)

// R2 holds the credentials of the Cloudflare R2 bucket that receives
// backups. Backups go to the local directory when it is incomplete.
type R2 struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

func (r R2) Complete() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.SecretAccessKey != "" && r.Bucket != ""
}

type Config struct {
	ServerPort  int
	StoreDriver string
	StorePath   string
	LogLevel    slog.Level
	BackupCron  string
	BackupDir   string
	R2          R2
}

// Load reads the configuration from the environment. A .env file in
// the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := firstNonEmpty(os.Getenv("TOURNEY_HTTP_PORT"), "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TOURNEY_HTTP_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("TOURNEY_HTTP_PORT must be between 1 and 65535, got %d", port)
	}

	driver := strings.ToLower(firstNonEmpty(os.Getenv("TOURNEY_STORE_DRIVER"), storage.DriverBolt))
	if !slices.Contains(storage.Drivers, driver) {
		return nil, fmt.Errorf("unknown TOURNEY_STORE_DRIVER %q", driver)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(firstNonEmpty(os.Getenv("LOG_LEVEL"), "INFO"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	cfg := &Config{
		ServerPort:  port,
		StoreDriver: driver,
		StorePath:   firstNonEmpty(os.Getenv("TOURNEY_STORE_PATH"), "data/tourney.db"),
		LogLevel:    level,
		BackupCron:  os.Getenv("TOURNEY_BACKUP_CRON"),
		BackupDir:   firstNonEmpty(os.Getenv("TOURNEY_BACKUP_DIR"), "data/backups"),
		R2: R2{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("R2_BUCKET"),
		},
	}

	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
