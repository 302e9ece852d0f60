package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"budget-buddy/internal/models"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	minJWTSecretLength = 32
)

type Config struct {
	API     APIConfig
	UI      UIConfig
	Metrics MetricsConfig
	Stub    StubConfig
	Log     LogConfig
}

// APIConfig describes how the client reaches the transactions backend
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type UIConfig struct {
	DebounceDelay time.Duration
	Categories    []models.Option
	Accounts      []models.Option
}

type MetricsConfig struct {
	Addr string
}

// StubConfig configures the stand-in backend used for demos and integration tests
type StubConfig struct {
	Port               string
	Environment        string
	DatabaseDriver     string
	DatabaseDSN        string
	SeedCount          int
	RateLimitPerSecond int
	RateLimitBurst     int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	JWTSecret          string
	TokenIssuer        string
	TokenDuration      time.Duration
}

type LogConfig struct {
	File  string
	Level slog.Level
}

func Load() *Config {
	config := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
			Token:   getEnv("API_TOKEN", ""),
			Timeout: getDurationEnv("API_TIMEOUT", 10*time.Second),
		},
		UI: UIConfig{
			DebounceDelay: getDurationEnv("FILTER_DEBOUNCE", 400*time.Millisecond),
			Categories:    parseOptions(getEnv("UI_CATEGORIES", "Groceries,Rent,Utilities,Transportation,Entertainment,Salary,Uncategorized")),
			Accounts:      parseOptions(getEnv("UI_ACCOUNTS", "1=Checking,2=Savings,3=Credit Card")),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
		Stub: StubConfig{
			Port:               getEnv("STUB_PORT", "5000"),
			Environment:        getEnv("APP_ENV", "development"),
			DatabaseDriver:     getEnv("STUB_DB_DRIVER", DriverSQLite),
			DatabaseDSN:        getEnv("STUB_DB_DSN", "file::memory:?cache=shared"),
			SeedCount:          getIntEnv("STUB_SEED_COUNT", 40),
			RateLimitPerSecond: getIntEnv("STUB_RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     getIntEnv("STUB_RATE_LIMIT_BURST", 40),
			ReadTimeout:        getDurationEnv("STUB_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:       getDurationEnv("STUB_WRITE_TIMEOUT", 15*time.Second),
			JWTSecret:          getEnv("STUB_JWT_SECRET", ""),
			TokenIssuer:        getEnv("STUB_TOKEN_ISSUER", "budget-buddy-stub"),
			TokenDuration:      getDurationEnv("STUB_TOKEN_DURATION", 24*time.Hour),
		},
		Log: LogConfig{
			File:  getEnv("LOG_FILE", "budgetbuddy.log"),
			Level: getLevelEnv("LOG_LEVEL", slog.LevelInfo),
		},
	}

	return config
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var problems []string

	if parsed, err := url.Parse(c.API.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid API_BASE_URL '%s': %v", c.API.BaseURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid API_BASE_URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
	}

	if c.API.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid API_TIMEOUT %v: must be positive", c.API.Timeout))
	}

	if c.UI.DebounceDelay < 0 || c.UI.DebounceDelay > 5*time.Second {
		problems = append(problems, fmt.Sprintf("invalid FILTER_DEBOUNCE %v: must be between 0 and 5s", c.UI.DebounceDelay))
	}

	if port, err := strconv.Atoi(c.Stub.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid STUB_PORT '%s': must be a number", c.Stub.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid STUB_PORT %d: must be between 1 and 65535", port))
	}

	if c.Stub.DatabaseDriver != DriverSQLite && c.Stub.DatabaseDriver != DriverPostgres {
		problems = append(problems, fmt.Sprintf("invalid STUB_DB_DRIVER '%s': must be '%s' or '%s'", c.Stub.DatabaseDriver, DriverSQLite, DriverPostgres))
	}

	if c.Stub.SeedCount < 0 {
		problems = append(problems, fmt.Sprintf("invalid STUB_SEED_COUNT %d: must not be negative", c.Stub.SeedCount))
	}

	if c.Stub.RateLimitPerSecond < 1 || c.Stub.RateLimitBurst < 1 {
		problems = append(problems, "stub rate limit and burst must be at least 1")
	}

	if c.Stub.JWTSecret != "" && len(c.Stub.JWTSecret) < minJWTSecretLength {
		problems = append(problems, fmt.Sprintf("STUB_JWT_SECRET must be at least %d characters", minJWTSecretLength))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

func (c *StubConfig) IsProduction() bool {
	return c.Environment == "production"
}

// AuthEnabled reports whether the stand-in backend requires a bearer token
func (c *StubConfig) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// parseOptions turns "1=Checking,Savings" into options; a bare label doubles as its value
func parseOptions(raw string) []models.Option {
	options := make([]models.Option, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, label, found := strings.Cut(part, "=")
		if !found {
			options = append(options, models.Option{Value: part, Label: part})
			continue
		}
		value = strings.TrimSpace(value)
		label = strings.TrimSpace(label)
		if label == "" {
			label = value
		}
		options = append(options, models.Option{Value: value, Label: label})
	}
	return options
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getLevelEnv(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
	}
	return defaultValue
}
