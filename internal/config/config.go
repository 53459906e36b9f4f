package config

import (
	"errors"
	"fmt"
	"os"

	"meetbook/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Booking    BookingConfig    `yaml:"booking"`
	Auth       AuthConfig       `yaml:"auth"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port               int      `yaml:"port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	ReadHeaderTimeout  int      `yaml:"read_header_timeout"` // seconds
	WriteTimeout       int      `yaml:"write_timeout"`       // seconds
	RateLimit          RateCfg  `yaml:"rate_limit"`
}

type RateCfg struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SMTPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type BookingConfig struct {
	// ConflictAllStatuses makes cancelled/rejected bookings block the room
	// again, matching the legacy behavior. Off by default.
	ConflictAllStatuses bool `yaml:"conflict_all_statuses"`
	// RequireProgramName turns program_name into a mandatory field for new
	// bookings. Off by default.
	RequireProgramName bool `yaml:"require_program_name"`
}

type AuthConfig struct {
	BcryptCost        int `yaml:"bcrypt_cost"`
	RateLimitRequests int `yaml:"rate_limit_requests"`
	RateLimitWindow   int `yaml:"rate_limit_window"` // seconds
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; config values may reference its variables.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.SMTP.Enabled {
		if c.SMTP.Host == "" {
			return errors.New("smtp host is required when smtp is enabled")
		}
		if c.SMTP.From == "" {
			return errors.New("smtp from address is required when smtp is enabled")
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = models.DefaultBcryptCost
	}
	if c.Auth.RateLimitRequests == 0 {
		c.Auth.RateLimitRequests = models.RateLimitRequests
	}
	if c.Auth.RateLimitWindow == 0 {
		c.Auth.RateLimitWindow = models.RateLimitWindow
	}
}
