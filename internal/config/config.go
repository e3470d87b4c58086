package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Registry  RegistryConfig  `yaml:"registry"`
	Log       LogConfig       `yaml:"log"`
	Engine    EngineConfig    `yaml:"engine"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// RegistryConfig selects the asset rights registry implementation
type RegistryConfig struct {
	Type string `yaml:"type"` // "mock" is the only built-in implementation
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// EngineConfig contains the rental engine's economic parameters. Amounts are
// in the smallest currency unit, periods in seconds, shares in basis points.
type EngineConfig struct {
	MaxScore            int32 `yaml:"max_score"`
	ScoreGain           int32 `yaml:"score_gain"`
	ScoreLoss           int32 `yaml:"score_loss"`
	PlatformFeeBps      int32 `yaml:"platform_fee_bps"`
	PlatformAccountID   int32 `yaml:"platform_account_id"`
	RecoveryGracePeriod int64 `yaml:"recovery_grace_period_seconds"`
	DisputeWindow       int64 `yaml:"dispute_window_seconds"`
	CancelGraceWindow   int64 `yaml:"cancel_grace_window_seconds"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SweepMilestones        string `yaml:"sweep_milestones"`
	MarkRecoverableRentals string `yaml:"mark_recoverable_rentals"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Engine
	if val := os.Getenv("PLATFORM_ACCOUNT_ID"); val != "" {
		fmt.Sscanf(val, "%d", &c.Engine.PlatformAccountID)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration and applies engine defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Engine validation and defaults
	if c.Engine.PlatformAccountID == 0 {
		return fmt.Errorf("platform account id is required")
	}
	if c.Engine.MaxScore == 0 {
		c.Engine.MaxScore = 1000
	}
	if c.Engine.ScoreGain == 0 {
		c.Engine.ScoreGain = 10
	}
	if c.Engine.ScoreLoss == 0 {
		c.Engine.ScoreLoss = 50
	}
	if c.Engine.PlatformFeeBps == 0 {
		c.Engine.PlatformFeeBps = 250 // 2.5%
	}
	if c.Engine.PlatformFeeBps < 0 || c.Engine.PlatformFeeBps > 10000 {
		return fmt.Errorf("invalid platform fee bps: %d", c.Engine.PlatformFeeBps)
	}
	if c.Engine.RecoveryGracePeriod == 0 {
		c.Engine.RecoveryGracePeriod = 7 * 24 * 3600
	}
	if c.Engine.DisputeWindow == 0 {
		c.Engine.DisputeWindow = 3 * 24 * 3600
	}
	if c.Engine.CancelGraceWindow == 0 {
		c.Engine.CancelGraceWindow = 3600
	}

	// Registry defaults
	if c.Registry.Type == "" {
		c.Registry.Type = "mock"
	}

	// Scheduler defaults
	if c.Scheduler.SweepMilestones == "" {
		c.Scheduler.SweepMilestones = "0 * * * * *" // every minute
	}
	if c.Scheduler.MarkRecoverableRentals == "" {
		c.Scheduler.MarkRecoverableRentals = "0 0 * * * *" // hourly
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
