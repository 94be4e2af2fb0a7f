package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Scraper  ScraperConfig
	Browser  BrowserConfig
	Proxy    ProxyConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ScraperConfig struct {
	Sites              []string
	MinRequestInterval time.Duration
	MaxRetries         int
	NavigationTimeout  time.Duration
	UseStealth         bool
	SnapshotFile       string
}

type BrowserConfig struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string
	UserAgents     []string
}

type ProxyConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Username string
	Password string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxConns int32
}

type RedisConfig struct {
	Enabled bool
	Addr    string
	Stream  string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			Sites:              getStringSliceOrDefault("SCRAPER_SITES", []string{"electrodomesticos", "plazalama"}),
			MinRequestInterval: getDurationOrDefault("SCRAPER_MIN_REQUEST_INTERVAL", 2*time.Second),
			MaxRetries:         getIntOrDefault("SCRAPER_MAX_RETRIES", 3),
			NavigationTimeout:  getDurationOrDefault("SCRAPER_NAVIGATION_TIMEOUT", 60*time.Second),
			UseStealth:         getBoolOrDefault("USE_STEALTH", true),
			SnapshotFile:       getEnvOrDefault("SCRAPER_SNAPSHOT_FILE", "deals_output.json"),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", false),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "en-US"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "America/New_York"),
			UserAgents:     getStringSliceOrDefault("BROWSER_USER_AGENTS", nil),
		},
		Proxy: ProxyConfig{
			Enabled:  getBoolOrDefault("USE_PROXY", true),
			Host:     getEnvOrDefault("PROXY_HOST", "proxy.example.com"),
			Port:     getEnvOrDefault("PROXY_PORT", "8080"),
			Username: os.Getenv("PROXY_USERNAME"),
			Password: os.Getenv("PROXY_PASSWORD"),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolOrDefault("DB_ENABLED", false),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "dealscout"),
			MaxConns: int32(getIntOrDefault("DB_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Enabled: getBoolOrDefault("REDIS_ENABLED", false),
			Addr:    getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Stream:  getEnvOrDefault("REDIS_DEAL_STREAM", "stream:deals_scraped"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.MaxRetries < 1 {
		return fmt.Errorf("SCRAPER_MAX_RETRIES must be at least 1")
	}

	if c.Scraper.MinRequestInterval < 0 {
		return fmt.Errorf("SCRAPER_MIN_REQUEST_INTERVAL cannot be negative")
	}

	if len(c.Scraper.Sites) == 0 {
		return fmt.Errorf("SCRAPER_SITES must name at least one site")
	}

	return nil
}

// Configured reports whether proxy credentials are present; without them the
// manager runs direct even when USE_PROXY is set.
func (p ProxyConfig) Configured() bool {
	return p.Enabled && p.Username != "" && p.Password != ""
}

// Server returns the proxy address without credentials, for context options.
func (p ProxyConfig) Server() string {
	return fmt.Sprintf("http://%s:%s", p.Host, p.Port)
}

// LaunchArg returns the authenticated --proxy-server browser argument.
func (p ProxyConfig) LaunchArg() string {
	return fmt.Sprintf("--proxy-server=http://%s:%s@%s:%s",
		url.QueryEscape(p.Username), url.QueryEscape(p.Password), p.Host, p.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
