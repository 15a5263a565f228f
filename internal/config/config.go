package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DBConfig holds database configuration
type DBConfig struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
}

// LedgerConfig controls the retry policy and the frozen-account gate of the ledger engine
type LedgerConfig struct {
	MaxAttempts     int
	Backoff         time.Duration
	BackoffStrategy string
	EnforceFrozen   bool
}

type FreezeConfig struct {
	USSDCode string
}

// AuthConfig selects how stored passwords are compared. Plaintext is the default.
type AuthConfig struct {
	PasswordHasher string
	Argon2Time     uint32
	Argon2Memory   uint32
	Argon2Threads  uint8
	Argon2KeyLen   uint32
	Argon2SaltLen  int
}

type NotifyConfig struct {
	Backend      string
	RedisKey     string
	RedisHost    string
	RedisPort    string
	RedisPass    string
	RedisDB      int
	NATSURL      string
	NATSSubject  string
	KafkaBrokers []string
	KafkaTopic   string
}

type LogConfig struct {
	Level       string
	Development bool
}

type ServerConfig struct {
	Port string
}

type Config struct {
	Database DBConfig
	Ledger   LedgerConfig
	Freeze   FreezeConfig
	Auth     AuthConfig
	Notify   NotifyConfig
	Log      LogConfig
	Server   ServerConfig
}

var envBindings = map[string]string{
	"database.driver":       "DATABASE_DRIVER",
	"database.path":         "DATABASE_PATH",
	"database.busy_timeout": "DATABASE_BUSY_TIMEOUT",
	"database.host":         "DATABASE_HOST",
	"database.port":         "DATABASE_PORT",
	"database.user":         "DATABASE_USER",
	"database.password":     "DATABASE_PASSWORD",
	"database.name":         "DATABASE_NAME",
	"database.ssl_mode":     "DATABASE_SSL_MODE",

	"ledger.max_attempts":     "LEDGER_MAX_ATTEMPTS",
	"ledger.backoff":          "LEDGER_BACKOFF",
	"ledger.backoff_strategy": "LEDGER_BACKOFF_STRATEGY",
	"ledger.enforce_frozen":   "LEDGER_ENFORCE_FROZEN",

	"freeze.ussd_code": "FREEZE_USSD_CODE",

	"auth.password_hasher": "AUTH_PASSWORD_HASHER",
	"argon2.time":          "ARGON2_TIME",
	"argon2.memory":        "ARGON2_MEMORY",
	"argon2.threads":       "ARGON2_THREADS",
	"argon2.key_length":    "ARGON2_KEY_LENGTH",
	"argon2.salt_length":   "ARGON2_SALT_LENGTH",

	"notify.backend":   "NOTIFY_BACKEND",
	"notify.redis_key": "NOTIFY_REDIS_KEY",
	"redis.host":       "REDIS_HOST",
	"redis.port":       "REDIS_PORT",
	"redis.password":   "REDIS_PASSWORD",
	"redis.db":         "REDIS_DB",
	"nats.url":         "NATS_URL",
	"nats.subject":     "NATS_SUBJECT",
	"kafka.brokers":    "KAFKA_BROKERS",
	"kafka.topic":      "KAFKA_TOPIC",

	"log.level":       "LOG_LEVEL",
	"log.development": "LOG_DEVELOPMENT",

	"server.port": "PORT",
}

func setDefaults() {
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "banking.db")
	viper.SetDefault("database.busy_timeout", 5*time.Second)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.name", "banking")
	viper.SetDefault("database.ssl_mode", "disable")

	viper.SetDefault("ledger.max_attempts", 3)
	viper.SetDefault("ledger.backoff", 100*time.Millisecond)
	viper.SetDefault("ledger.backoff_strategy", "fixed")
	viper.SetDefault("ledger.enforce_frozen", true)

	viper.SetDefault("freeze.ussd_code", "*391#")

	viper.SetDefault("auth.password_hasher", "plaintext")
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)

	viper.SetDefault("notify.backend", "log")
	viper.SetDefault("notify.redis_key", "notifications")
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("nats.url", "nats://127.0.0.1:4222")
	viper.SetDefault("nats.subject", "bank.notifications")
	viper.SetDefault("kafka.brokers", "localhost:9092")
	viper.SetDefault("kafka.topic", "bank-notifications")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)

	viper.SetDefault("server.port", "8080")
}

// Load reads .env (when present) and the process environment into a Config.
// Values already set on viper (e.g. by tests) win over environment variables.
func Load() *Config {
	_ = godotenv.Load()

	for key, env := range envBindings {
		viper.BindEnv(key, env)
	}
	setDefaults()

	return &Config{
		Database: DBConfig{
			Driver:      strings.ToLower(viper.GetString("database.driver")),
			Path:        viper.GetString("database.path"),
			BusyTimeout: viper.GetDuration("database.busy_timeout"),
			Host:        viper.GetString("database.host"),
			Port:        viper.GetString("database.port"),
			User:        viper.GetString("database.user"),
			Password:    viper.GetString("database.password"),
			Name:        viper.GetString("database.name"),
			SSLMode:     viper.GetString("database.ssl_mode"),
		},
		Ledger: LedgerConfig{
			MaxAttempts:     viper.GetInt("ledger.max_attempts"),
			Backoff:         viper.GetDuration("ledger.backoff"),
			BackoffStrategy: strings.ToLower(viper.GetString("ledger.backoff_strategy")),
			EnforceFrozen:   viper.GetBool("ledger.enforce_frozen"),
		},
		Freeze: FreezeConfig{
			USSDCode: viper.GetString("freeze.ussd_code"),
		},
		Auth: AuthConfig{
			PasswordHasher: strings.ToLower(viper.GetString("auth.password_hasher")),
			Argon2Time:     viper.GetUint32("argon2.time"),
			Argon2Memory:   viper.GetUint32("argon2.memory"),
			Argon2Threads:  uint8(viper.GetUint("argon2.threads")),
			Argon2KeyLen:   viper.GetUint32("argon2.key_length"),
			Argon2SaltLen:  viper.GetInt("argon2.salt_length"),
		},
		Notify: NotifyConfig{
			Backend:      strings.ToLower(viper.GetString("notify.backend")),
			RedisKey:     viper.GetString("notify.redis_key"),
			RedisHost:    viper.GetString("redis.host"),
			RedisPort:    viper.GetString("redis.port"),
			RedisPass:    viper.GetString("redis.password"),
			RedisDB:      viper.GetInt("redis.db"),
			NATSURL:      viper.GetString("nats.url"),
			NATSSubject:  viper.GetString("nats.subject"),
			KafkaBrokers: splitList(viper.GetString("kafka.brokers")),
			KafkaTopic:   viper.GetString("kafka.topic"),
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
		},
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
