package config

import (
	"context"
	"fmt"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432" validate:"gt=0"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	RedisAddr     string        `env:"REDIS_ADDR,default=localhost:6379" validate:"required,hostname_port"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB,default=0" validate:"gte=0"`
	AdvisoryTTL   time.Duration `env:"ADVISORY_TTL,default=168h"`
	AdvisoryMax   int           `env:"ADVISORY_MAX,default=50" validate:"gt=0"`

	TelegramBotToken    string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramPollTimeout int     `env:"TELEGRAM_POLL_TIMEOUT,default=60"`
	TelegramRatePerSec  float64 `env:"TELEGRAM_RATE_PER_SEC,default=25" validate:"gt=0"`

	HTTPAddr string `env:"HTTP_ADDR,default=:8080" validate:"required"`

	DiaryBaseURL string        `env:"DIARY_BASE_URL" validate:"omitempty,url"`
	DiaryTimeout time.Duration `env:"DIARY_TIMEOUT,default=10s"`

	AlertPruneStale bool   `env:"ALERT_PRUNE_STALE,default=true"`
	AlertTimezone   string `env:"ALERT_TIMEZONE,default=UTC"`
	AlertLinkBase   string `env:"ALERT_LINK_BASE,default=carewatch://alerts"`

	SweepInterval    time.Duration `env:"ALERT_SWEEP_INTERVAL,default=0s"`
	SweepConcurrency int           `env:"ALERT_SWEEP_CONCURRENCY,default=4" validate:"gte=1"`

	TempWarnHigh           float64 `env:"ALERT_TEMP_WARN_HIGH,default=37.5"`
	TempCriticalHigh       float64 `env:"ALERT_TEMP_CRITICAL_HIGH,default=38.0" validate:"gtfield=TempWarnHigh"`
	TempWarnLow            float64 `env:"ALERT_TEMP_WARN_LOW,default=36.0" validate:"ltfield=TempWarnHigh"`
	TempCriticalLow        float64 `env:"ALERT_TEMP_CRITICAL_LOW,default=35.0" validate:"ltfield=TempWarnLow"`
	SeizureWarn            int     `env:"ALERT_SEIZURE_WARN,default=1" validate:"gte=1"`
	SeizureCritical        int     `env:"ALERT_SEIZURE_CRITICAL,default=3" validate:"gtefield=SeizureWarn"`
	HydrationTargetML      float64 `env:"ALERT_HYDRATION_TARGET_ML,default=1500" validate:"gt=0"`
	HydrationWarnRatio     float64 `env:"ALERT_HYDRATION_WARN_RATIO,default=0.7" validate:"gt=0,lte=1"`
	HydrationCriticalRatio float64 `env:"ALERT_HYDRATION_CRITICAL_RATIO,default=0.4" validate:"gt=0,ltfield=HydrationWarnRatio"`
	SpO2Warn               float64 `env:"ALERT_SPO2_WARN,default=94" validate:"gt=0,lte=100"`
	SpO2Critical           float64 `env:"ALERT_SPO2_CRITICAL,default=90" validate:"gt=0,ltfield=SpO2Warn"`
	HeartRateHigh          float64 `env:"ALERT_HR_HIGH,default=120" validate:"gt=0"`
	HeartRateLow           float64 `env:"ALERT_HR_LOW,default=45" validate:"gt=0,ltfield=HeartRateHigh"`
	SleepShortHours        float64 `env:"ALERT_SLEEP_SHORT_HOURS,default=5" validate:"gte=0,lte=24"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// Load reads an optional .env file, then the process environment.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	if _, err := time.LoadLocation(cfg.AlertTimezone); err != nil {
		return Config{}, fmt.Errorf("ALERT_TIMEZONE: %w", err)
	}
	return cfg, nil
}

func (c Config) Thresholds() domain.Thresholds {
	return domain.Thresholds{
		TempWarnHigh:           decimal.NewFromFloat(c.TempWarnHigh),
		TempCriticalHigh:       decimal.NewFromFloat(c.TempCriticalHigh),
		TempWarnLow:            decimal.NewFromFloat(c.TempWarnLow),
		TempCriticalLow:        decimal.NewFromFloat(c.TempCriticalLow),
		SeizureWarn:            c.SeizureWarn,
		SeizureCritical:        c.SeizureCritical,
		HydrationTargetML:      decimal.NewFromFloat(c.HydrationTargetML),
		HydrationWarnRatio:     decimal.NewFromFloat(c.HydrationWarnRatio),
		HydrationCriticalRatio: decimal.NewFromFloat(c.HydrationCriticalRatio),
		SpO2Warn:               decimal.NewFromFloat(c.SpO2Warn),
		SpO2Critical:           decimal.NewFromFloat(c.SpO2Critical),
		HeartRateHigh:          decimal.NewFromFloat(c.HeartRateHigh),
		HeartRateLow:           decimal.NewFromFloat(c.HeartRateLow),
		SleepShortHours:        decimal.NewFromFloat(c.SleepShortHours),
	}
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AlertTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}
