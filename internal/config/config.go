package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	StorageDriver string        `env:"STORAGE_DRIVER"` // sqlite | postgres | bolt
	DatabaseDSN   string        `env:"DATABASE_URI"`
	AuthSecret    string        `env:"AUTH_SECRET"`
	RedisAddr     string        `env:"REDIS_ADDR"` // пусто: блокировки в памяти процесса
	RedisPassword string        `env:"REDIS_PASSWORD"`
	LockTTL       time.Duration `env:"LOCK_TTL"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	AuditSchedule  string   `env:"AUDIT_SCHEDULE"`
	SeedDemo       bool     `env:"SEED_DEMO"`
	AdminUsername  string   `env:"ADMIN_USERNAME"`
	AdminPassword  string   `env:"ADMIN_PASSWORD"`

	LogLevel string `env:"LOG_LEVEL"`
	LogMode  string `env:"LOG_MODE"` // development | production
	LogFile  string `env:"LOG_FILE"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "хранилище: sqlite, postgres или bolt")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД или путь к файлу")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "адрес Redis для распределённых блокировок")
	flag.DurationVar(&cfg.LockTTL, "lock-ttl", cfg.LockTTL, "TTL блокировки предмета в Redis")
	flag.StringVar(&cfg.AuditSchedule, "audit", cfg.AuditSchedule, "расписание сверки остатков (cron)")
	flag.BoolVar(&cfg.SeedDemo, "seed", cfg.SeedDemo, "заполнить пустой каталог демо-данными")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "уровень логирования")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "файл для JSON-логов с ротацией")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the Inventaris server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = "sqlite"
	}
	if cfg.DatabaseDSN == "" {
		switch cfg.StorageDriver {
		case "bolt":
			cfg.DatabaseDSN = "inventaris.bolt"
		case "sqlite":
			cfg.DatabaseDSN = "inventaris.db"
		}
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.AuditSchedule == "" {
		cfg.AuditSchedule = "@every 15m"
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogMode == "" {
		cfg.LogMode = "development"
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, _ = os.UserHomeDir()
		}
		cfg.TokenFile = filepath.Join(dir, "inventaris", "token")
	}
}
