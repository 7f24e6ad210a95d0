package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// RedisAddr empty disables the idempotency middleware.
	RedisAddr    string
	RedisDB      int
	IdempTTLSecs int

	JWTSecret       string
	AccessTTLMins   int
	RefreshTTLHours int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	// PenaltyRatePct is the flat late-fee percentage of the EMI amount.
	PenaltyRatePct string

	ReminderLookbackDays  int
	ReminderLookaheadDays int

	// Cron specs for the background jobs.
	SweepSpec    string
	ReminderSpec string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "fintrack"),
		MySQLUser: getenv("MYSQL_USER", "fintrack"),
		MySQLPass: getenv("MYSQL_PASS", "fintrack"),

		RedisAddr:    getenv("REDIS_ADDR", ""),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret:       getenv("JWT_SECRET", "secret"),
		AccessTTLMins:   getenvInt("ACCESS_TTL_MINS", 15),
		RefreshTTLHours: getenvInt("REFRESH_TTL_HOURS", 24*7),

		SMTPHost:     getenv("SMTP_HOST", "localhost"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SenderEmail:  getenv("SENDER_EMAIL", "noreply@fintrack.local"),

		PenaltyRatePct: getenv("PENALTY_RATE_PCT", "2"),

		ReminderLookbackDays:  getenvInt("REMINDER_LOOKBACK_DAYS", 30),
		ReminderLookaheadDays: getenvInt("REMINDER_LOOKAHEAD_DAYS", 3),

		SweepSpec:    getenv("SWEEP_CRON", "0 1 * * *"),
		ReminderSpec: getenv("REMINDER_CRON", "0 8 * * *"),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATE/DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
