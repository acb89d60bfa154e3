package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV"`
	Port            string        `mapstructure:"APP_PORT"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBHost          string        `mapstructure:"DB_HOST"`
	DBPort          string        `mapstructure:"DB_PORT"`
	DBUser          string        `mapstructure:"DB_USER"`
	DBPassword      string        `mapstructure:"DB_PASSWORD"`
	DBName          string        `mapstructure:"DB_NAME"`
	DBSSLMode       string        `mapstructure:"DB_SSLMODE"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS"`
	MigrationsDir   string        `mapstructure:"MIGRATIONS_DIR"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	JWTExpiry       time.Duration `mapstructure:"JWT_EXPIRY"`
	RedisURL        string        `mapstructure:"REDIS_URL"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	MenuCacheTTL    time.Duration `mapstructure:"MENU_CACHE_TTL"`
	OriginURL       string        `mapstructure:"ORIGIN_URL"`
	SMTPHost        string        `mapstructure:"SMTP_HOST"`
	SMTPPort        int           `mapstructure:"SMTP_PORT"`
	SMTPUser        string        `mapstructure:"SMTP_USER"`
	SMTPPass        string        `mapstructure:"SMTP_PASS"`
	SMTPFrom        string        `mapstructure:"SMTP_FROM"`
	KafkaBrokers    string        `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic string        `mapstructure:"KAFKA_ORDER_TOPIC"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	Argon2Time      uint32        `mapstructure:"ARGON2_TIME"`
	Argon2MemoryKiB uint32        `mapstructure:"ARGON2_MEMORY_KIB"`
	Argon2Threads   uint8         `mapstructure:"ARGON2_THREADS"`
}

var AppConfig *Config

var defaults = map[string]any{
	"APP_ENV":           "development",
	"APP_PORT":          "5000",
	"DATABASE_URL":      "",
	"DB_HOST":           "localhost",
	"DB_PORT":           "5432",
	"DB_USER":           "postgres",
	"DB_PASSWORD":       "postgres",
	"DB_NAME":           "food_order",
	"DB_SSLMODE":        "disable",
	"DB_MAX_CONNS":      10,
	"MIGRATIONS_DIR":    "database/migration",
	"JWT_SECRET":        "secretkey",
	"JWT_EXPIRY":        "1h",
	"REDIS_URL":         "",
	"REDIS_ADDR":        "",
	"REDIS_PASSWORD":    "",
	"MENU_CACHE_TTL":    "5m",
	"ORIGIN_URL":        "",
	"SMTP_HOST":         "",
	"SMTP_PORT":         587,
	"SMTP_USER":         "",
	"SMTP_PASS":         "",
	"SMTP_FROM":         "",
	"KAFKA_BROKERS":     "",
	"KAFKA_ORDER_TOPIC": "orders.placed",
	"LOG_LEVEL":         "info",
	"ARGON2_TIME":       3,
	"ARGON2_MEMORY_KIB": 64 * 1024,
	"ARGON2_THREADS":    4,
}

// LoadConfig reads envFile (when present) and the process environment into
// AppConfig. Environment variables win over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Warn().Str("file", envFile).Msg(".env file not found, using system environment variables")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// PORT is what most hosting platforms inject.
	if port := v.GetString("PORT"); port != "" && v.GetString("APP_PORT") == defaults["APP_PORT"] {
		cfg.Port = port
	}

	AppConfig = cfg
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) KafkaBrokerList() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	brokers := []string{}
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
