package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Mail      MailConfig      `mapstructure:"mail"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BaseURL      string        `mapstructure:"base_url"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// MailConfig holds outbound transport configuration. Provider is one of
// "postmark", "smtp" or "none"; "none" keeps the service running with a
// transport that fails every send with a distinct not-configured error.
type MailConfig struct {
	Provider      string `mapstructure:"provider"`
	FromEmail     string `mapstructure:"from_email"`
	FromName      string `mapstructure:"from_name"`
	PostmarkToken string `mapstructure:"postmark_token"`
	SMTPHost      string `mapstructure:"smtp_host"`
	SMTPPort      int    `mapstructure:"smtp_port"`
	SMTPUser      string `mapstructure:"smtp_user"`
	SMTPPassword  string `mapstructure:"smtp_password"`
}

// SchedulerConfig holds queue polling configuration
type SchedulerConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
	BatchSize       int `mapstructure:"batch_size"`
}

// LoadConfig loads configuration from environment variables and config file
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables override config file
	viper.AutomaticEnv()
	bindEnvVars()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.base_url", "http://localhost:8080")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)

	viper.SetDefault("mail.provider", "none")
	viper.SetDefault("mail.from_email", "hello@englishbridge.org")
	viper.SetDefault("mail.from_name", "English Bridge")
	viper.SetDefault("mail.smtp_port", 587)

	viper.SetDefault("scheduler.interval_minutes", 5)
	viper.SetDefault("scheduler.batch_size", 10)
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars() {
	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	viper.BindEnv("server.base_url", "SERVER_BASE_URL")

	// Database
	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.dbname", "DB_NAME")

	// Mail
	viper.BindEnv("mail.provider", "MAIL_PROVIDER")
	viper.BindEnv("mail.from_email", "MAIL_FROM_EMAIL")
	viper.BindEnv("mail.from_name", "MAIL_FROM_NAME")
	viper.BindEnv("mail.postmark_token", "MAIL_POSTMARK_TOKEN")
	viper.BindEnv("mail.smtp_host", "MAIL_SMTP_HOST")
	viper.BindEnv("mail.smtp_port", "MAIL_SMTP_PORT")
	viper.BindEnv("mail.smtp_user", "MAIL_SMTP_USER")
	viper.BindEnv("mail.smtp_password", "MAIL_SMTP_PASSWORD")

	// Scheduler
	viper.BindEnv("scheduler.interval_minutes", "SCHEDULER_INTERVAL_MINUTES")
	viper.BindEnv("scheduler.batch_size", "SCHEDULER_BATCH_SIZE")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base_url is required")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host, user, and dbname are required")
	}

	switch c.Mail.Provider {
	case "postmark":
		if c.Mail.PostmarkToken == "" {
			return fmt.Errorf("postmark token is required when provider is postmark")
		}
	case "smtp":
		if c.Mail.SMTPHost == "" {
			return fmt.Errorf("smtp host is required when provider is smtp")
		}
	case "none":
		// Running without a transport is a supported state; every send
		// fails with a not-configured error until credentials arrive.
	default:
		return fmt.Errorf("unknown mail provider %q", c.Mail.Provider)
	}
	if c.Mail.FromEmail == "" {
		return fmt.Errorf("mail from_email is required")
	}

	if c.Scheduler.IntervalMinutes <= 0 {
		return fmt.Errorf("scheduler interval must be greater than 0")
	}
	if c.Scheduler.BatchSize <= 0 {
		return fmt.Errorf("scheduler batch size must be greater than 0")
	}

	return nil
}
