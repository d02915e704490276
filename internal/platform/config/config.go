package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	strs "profilr/pkg/platform/strings"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultAllowedOrigins is the allow-list used when ALLOWED_ORIGINS is unset.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"https://the-profilr.onrender.com",
}

// Config is the full process configuration.
type Config struct {
	Env      string
	LogLevel string
	Server   Server
	Store    Store
	CORS     CORS
	Events   Events
}

// Server captures HTTP listener configuration.
type Server struct {
	Addr        string
	MetricsAddr string
}

// Store captures the document store connection settings.
type Store struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// CORS captures the origin allow-list.
type CORS struct {
	AllowedOrigins []string
}

// Events captures the optional Kafka publisher settings. Brokers empty means
// publishing is disabled.
type Events struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether review events should be published.
func (e Events) Enabled() bool {
	return len(e.Brokers) > 0
}

// IsProduction reports whether the process runs with production defaults.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// New returns a viper instance with every default and env binding applied.
// A .env file in the working directory is read when present.
func New() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("DATABASE_URL", "memory://")
	v.SetDefault("DATABASE_NAME", "profilr")
	v.SetDefault("REVIEWS_COLLECTION", "reviews")
	v.SetDefault("CONNECT_TIMEOUT", 10*time.Second)
	v.SetDefault("ALLOWED_ORIGINS", strings.Join(DefaultAllowedOrigins, ","))
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "reviews.created")

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	// .env is optional; the environment alone is authoritative.
	_ = v.ReadInConfig()
	return v
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return FromViper(New())
}

// FromViper builds a Config from an already prepared viper instance. The CLI
// uses this after binding its flags.
func FromViper(v *viper.Viper) Config {
	uri := v.GetString("MONGO_URI")
	if uri == "" {
		uri = v.GetString("DATABASE_URL")
	}

	addr := v.GetString("PROFILR_ADDR")
	if addr == "" {
		addr = ":8080"
		if port := v.GetString("PORT"); port != "" {
			addr = ":" + port
		}
	}

	timeout := v.GetDuration("CONNECT_TIMEOUT")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return Config{
		Env:      strings.ToLower(v.GetString("APP_ENV")),
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: Server{
			Addr:        addr,
			MetricsAddr: v.GetString("METRICS_ADDR"),
		},
		Store: Store{
			URI:            uri,
			Database:       v.GetString("DATABASE_NAME"),
			Collection:     v.GetString("REVIEWS_COLLECTION"),
			ConnectTimeout: timeout,
		},
		CORS: CORS{
			AllowedOrigins: SplitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Events: Events{
			Brokers: SplitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
	}
}

// SplitList splits a comma-separated value, trimming blanks and trailing
// slashes so "https://a.example/" matches the Origin header "https://a.example".
// Duplicates are dropped.
func SplitList(raw string) []string {
	parts := strs.SplitList(raw, strs.TrimOrigin)
	if len(parts) == 0 {
		return nil
	}
	return parts
}
