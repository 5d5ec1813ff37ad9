package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	API       APIConfig       `yaml:"api"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// APIConfig points at the remote prediction/chat service.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type SessionConfig struct {
	Secret      string `yaml:"secret"`
	CookieName  string `yaml:"cookie_name"`
	IdleMinutes int    `yaml:"idle_minutes"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

const DefaultBaseURL = "https://flight-delay-api-4kxq.onrender.com"

func Default() *Config {
	return &Config{
		Server:    ServerConfig{Port: 8501},
		API:       APIConfig{BaseURL: DefaultBaseURL, TimeoutSeconds: 20},
		Log:       LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Session:   SessionConfig{Secret: "flight-assistant-dev-secret", CookieName: "flight_session", IdleMinutes: 60},
		RateLimit: RateLimitConfig{PerMinute: 30, Burst: 5},
	}
}

func Load(configFile string) *Config {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	c := Default()

	paths := []string{"etc/config-dev.yaml", "/etc/flight-assistant/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.API.BaseURL, "API_BASE_URL")
	envOverride(&c.Session.Secret, "SESSION_SECRET")
	envOverride(&c.Session.CookieName, "SESSION_COOKIE")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.API.TimeoutSeconds, "API_TIMEOUT_SECONDS")
	envOverrideInt(&c.Session.IdleMinutes, "SESSION_IDLE_MINUTES")
	envOverrideInt(&c.RateLimit.PerMinute, "RATE_LIMIT_PER_MINUTE")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) APITimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) SessionIdle() time.Duration {
	if c.Session.IdleMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Session.IdleMinutes) * time.Minute
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
