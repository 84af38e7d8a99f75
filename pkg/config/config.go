package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/soundprediction/go-askagent/pkg/admin"
	"github.com/soundprediction/go-askagent/pkg/transport"
)

// EnvPrefix prefixes every environment variable viper reads.
const EnvPrefix = "ASKAGENT"

// Config holds all configuration for the application
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	API     APIConfig     `mapstructure:"api"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Breaker BreakerConfig `mapstructure:"breaker"`
	Server  ServerConfig  `mapstructure:"server"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	Color bool   `mapstructure:"color"`
}

// APIConfig locates the question-answering backend. BaseURL wins when set;
// otherwise the URL is built from Scheme, Host and Port.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Scheme  string        `mapstructure:"scheme"`
	Host    string        `mapstructure:"host"`
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 leaves it to the transport
}

// AdminConfig holds the operator credential
type AdminConfig struct {
	Key       string `mapstructure:"key"`
	KeyHeader string `mapstructure:"key_header"`
}

// BreakerConfig holds fail-fast settings for the backend client
type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// ServerConfig holds the local gateway configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	Mode         string   `mapstructure:"mode"` // gin mode: debug, release, test
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LoadOptions selects the optional files Load reads.
type LoadOptions struct {
	// ConfigFile is a YAML/TOML/JSON file understood by viper.
	ConfigFile string
	// EnvFile is a dotenv file merged into the process environment.
	// Existing variables are not overwritten. A missing file is ignored.
	EnvFile string
}

// Load loads configuration from defaults, files and environment variables
func Load(v *viper.Viper, opts LoadOptions) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to load env file %s: %w", opts.EnvFile, err)
		}
	}

	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s: %w", opts.ConfigFile, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.color", true)

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.scheme", "http")
	v.SetDefault("api.host", "127.0.0.1")
	v.SetDefault("api.port", 8000)
	v.SetDefault("api.timeout", "0s")

	v.SetDefault("admin.key", "")
	v.SetDefault("admin.key_header", admin.DefaultKeyHeader)

	v.SetDefault("breaker.enabled", false)
	v.SetDefault("breaker.max_failures", 5)
	v.SetDefault("breaker.open_timeout", "30s")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allow_origins", []string{})
}

// overrideWithEnv honors the unprefixed names older deployments used
func overrideWithEnv(config *Config) {
	if key := os.Getenv("ADMIN_KEY"); key != "" && config.Admin.Key == "" {
		config.Admin.Key = key
	}
	if url := os.Getenv("API_URL"); url != "" && config.API.BaseURL == "" {
		config.API.BaseURL = url
	}
}

// ResolveBaseURL returns the backend root URL.
func (c APIConfig) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	scheme := c.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)))
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		if c.API.Host == "" {
			return fmt.Errorf("api host is required when api base_url is not set")
		}
		if c.API.Port <= 0 || c.API.Port > 65535 {
			return fmt.Errorf("invalid api port: %d", c.API.Port)
		}
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid api timeout: %s", c.API.Timeout)
	}
	if c.Admin.KeyHeader == "" {
		return fmt.Errorf("admin key_header cannot be empty")
	}
	return nil
}

// ValidateServer checks the gateway settings.
func (c *Config) ValidateServer() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode: %q", c.Server.Mode)
	}
	return nil
}

// Transport builds the backend client settings.
func (c *Config) Transport(logger *slog.Logger) transport.Config {
	return transport.Config{
		BaseURL: c.API.ResolveBaseURL(),
		Timeout: c.API.Timeout,
		Breaker: transport.BreakerConfig{
			Enabled:     c.Breaker.Enabled,
			MaxFailures: c.Breaker.MaxFailures,
			OpenTimeout: c.Breaker.OpenTimeout,
		},
		Logger: logger,
	}
}
