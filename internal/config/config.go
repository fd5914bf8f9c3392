package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Snapshot SnapshotConfig
	Queue    QueueConfig
	Log      LogConfig
	Policy   PolicyConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// SnapshotConfig selects where the initial store comes from and where it is saved on shutdown.
type SnapshotConfig struct {
	Source         string // file|postgres
	Path           string
	SaveOnShutdown bool
	Keep           int // postgres rows retained after a save; 0 keeps all
}

type QueueConfig struct {
	SettlementKey  string
	FraudReviewKey string
}

type LogConfig struct {
	Level  string
	Format string
}

type PolicyConfig struct {
	Path string
}

const (
	SnapshotSourceFile     = "file"
	SnapshotSourcePostgres = "postgres"
)

var envBindings = map[string]string{
	"server.port":               "PORT",
	"server.read_timeout":       "SERVER_READ_TIMEOUT",
	"server.write_timeout":      "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":       "SERVER_IDLE_TIMEOUT",
	"server.shutdown_timeout":   "SERVER_SHUTDOWN_TIMEOUT",
	"server.allowed_origins":    "SERVER_ALLOWED_ORIGINS",
	"snapshot.source":           "SNAPSHOT_SOURCE",
	"snapshot.path":             "SNAPSHOT_PATH",
	"snapshot.save_on_shutdown": "SNAPSHOT_SAVE_ON_SHUTDOWN",
	"snapshot.keep":             "SNAPSHOT_KEEP",
	"queue.settlement_key":      "QUEUE_SETTLEMENT_KEY",
	"queue.fraud_review_key":    "QUEUE_FRAUD_REVIEW_KEY",
	"log.level":                 "LOG_LEVEL",
	"log.format":                "LOG_FORMAT",
	"policy.path":               "POLICY_PATH",

	"database.host":     "DATABASE_HOST",
	"database.port":     "DATABASE_PORT",
	"database.user":     "DATABASE_USER",
	"database.password": "DATABASE_PASSWORD",
	"database.name":     "DATABASE_NAME",
	"database.ssl_mode": "DATABASE_SSL_MODE",

	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",
}

// Init points viper at an optional .env file and binds environment overrides.
// A missing file is not an error.
func Init(envFile string) error {
	if envFile != "" {
		viper.SetConfigFile(envFile)
	}
	viper.AutomaticEnv()

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if envFile == "" {
		return nil
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", envFile, err)
	}

	// dotenv keys arrive flat (LOG_LEVEL -> log_level); lift them onto the
	// dotted keys unless the real environment already provides a value.
	for key, env := range envBindings {
		if _, inEnv := os.LookupEnv(env); inEnv {
			continue
		}
		if flat := strings.ToLower(env); viper.InConfig(flat) {
			viper.Set(key, viper.Get(flat))
		}
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 15*time.Second)
	viper.SetDefault("server.idle_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 30*time.Second)
	viper.SetDefault("server.allowed_origins", "https://*,http://*")
	viper.SetDefault("snapshot.source", SnapshotSourceFile)
	viper.SetDefault("snapshot.path", "./data/db.json")
	viper.SetDefault("snapshot.save_on_shutdown", true)
	viper.SetDefault("snapshot.keep", 10)
	viper.SetDefault("queue.settlement_key", "settlement_queue")
	viper.SetDefault("queue.fraud_review_key", "fraud_review_queue")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("policy.path", "./data/policy.md")
}

// Load returns the current configuration with defaults applied.
func Load() (*Config, error) {
	setDefaults()

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("server.port"),
			ReadTimeout:     viper.GetDuration("server.read_timeout"),
			WriteTimeout:    viper.GetDuration("server.write_timeout"),
			IdleTimeout:     viper.GetDuration("server.idle_timeout"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
			AllowedOrigins:  splitCSV(viper.GetString("server.allowed_origins")),
		},
		Snapshot: SnapshotConfig{
			Source:         strings.ToLower(viper.GetString("snapshot.source")),
			Path:           viper.GetString("snapshot.path"),
			SaveOnShutdown: viper.GetBool("snapshot.save_on_shutdown"),
			Keep:           viper.GetInt("snapshot.keep"),
		},
		Queue: QueueConfig{
			SettlementKey:  viper.GetString("queue.settlement_key"),
			FraudReviewKey: viper.GetString("queue.fraud_review_key"),
		},
		Log: LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
		Policy: PolicyConfig{
			Path: viper.GetString("policy.path"),
		},
	}

	switch cfg.Snapshot.Source {
	case SnapshotSourceFile:
		if cfg.Snapshot.Path == "" {
			return nil, fmt.Errorf("snapshot.path is required for the file source")
		}
	case SnapshotSourcePostgres:
		if cfg.Snapshot.Keep < 0 {
			return nil, fmt.Errorf("snapshot.keep must not be negative")
		}
	default:
		return nil, fmt.Errorf("unknown snapshot.source %q", cfg.Snapshot.Source)
	}

	return cfg, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
