// Package config loads service configuration from defaults, an optional
// config.yaml and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full service configuration.
type Config struct {
	Service struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"service"`

	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`

	TLS struct {
		CertFile string `mapstructure:"cert_file"`
		KeyFile  string `mapstructure:"key_file"`
	} `mapstructure:"tls"`

	Store struct {
		Driver string `mapstructure:"driver"`
		Seed   bool   `mapstructure:"seed"`
	} `mapstructure:"store"`

	Mongo struct {
		URI            string        `mapstructure:"uri"`
		Database       string        `mapstructure:"database"`
		ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	} `mapstructure:"mongo"`

	Postgres struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"postgres"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`

	Idempotency struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"idempotency"`

	Otel struct {
		Host        string  `mapstructure:"host"`
		Probability float64 `mapstructure:"probability"`
	} `mapstructure:"otel"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var defaults = map[string]any{
	"service.name":          "lessonshop",
	"http.addr":             ":3000",
	"http.read_timeout":     10 * time.Second,
	"http.write_timeout":    10 * time.Second,
	"http.shutdown_timeout": 15 * time.Second,
	"tls.cert_file":         "",
	"tls.key_file":          "",
	"store.driver":          DriverMongo,
	"store.seed":            false,
	"mongo.uri":             "mongodb://localhost:27017",
	"mongo.database":        "cst3144",
	"mongo.connect_timeout": 10 * time.Second,
	"postgres.url":          "",
	"redis.addr":            "",
	"redis.password":        "",
	"idempotency.ttl":       24 * time.Hour,
	"otel.host":             "",
	"otel.probability":      1.0,
	"log.level":             "info",
}

// Load reads configuration. Environment variables use the upper-cased key
// with dots replaced by underscores, e.g. MONGO_URI or HTTP_ADDR. A missing
// config file is not an error.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected store driver has what it needs.
func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return &Error{Field: "http.addr", Message: "required"}
	}
	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return &Error{Field: "mongo.uri", Message: "uri and database required for mongo driver"}
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return &Error{Field: "postgres.url", Message: "required for postgres driver"}
		}
	case DriverMemory:
	default:
		return &Error{Field: "store.driver", Message: fmt.Sprintf("unknown driver %q", c.Store.Driver)}
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return &Error{Field: "tls", Message: "cert_file and key_file must be set together"}
	}
	if c.Otel.Probability < 0 || c.Otel.Probability > 1 {
		return &Error{Field: "otel.probability", Message: "must be between 0 and 1"}
	}
	return nil
}

// Error represents an invalid configuration value.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
