package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    "8080",
			BaseURL: "https://englishbridge.org",
		},
		Database: DatabaseConfig{
			Host:   "localhost",
			User:   "test",
			DBName: "test",
		},
		Mail: MailConfig{
			Provider:  "none",
			FromEmail: "hello@englishbridge.org",
		},
		Scheduler: SchedulerConfig{
			IntervalMinutes: 5,
			BatchSize:       10,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	invalid := &Config{
		Server: ServerConfig{Port: ""},
	}
	assert.Error(t, invalid.Validate())
}

func TestConfigValidationMailProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Mail.Provider = "postmark"
	assert.Error(t, cfg.Validate(), "postmark without token must fail")

	cfg.Mail.PostmarkToken = "token"
	assert.NoError(t, cfg.Validate())

	cfg = validConfig()
	cfg.Mail.Provider = "smtp"
	assert.Error(t, cfg.Validate(), "smtp without host must fail")

	cfg.Mail.SMTPHost = "smtp.example.com"
	assert.NoError(t, cfg.Validate())

	cfg = validConfig()
	cfg.Mail.Provider = "pigeon"
	assert.Error(t, cfg.Validate())
}

func TestConfigValidationScheduler(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.IntervalMinutes = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Scheduler.BatchSize = 0
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}

	dsn := cfg.GetDSN()
	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local"
	assert.Equal(t, expected, dsn)
}
