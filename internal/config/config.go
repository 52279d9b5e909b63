package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	DBMaxOpenConns int
	BotToken       string // пусто — telegram-фронт не запускается
	Location       *time.Location
	HTTPAddr       string
	LogLevel       string
	Env            string // dev|prod
	SentryDSN      string
	ReminderEvery  time.Duration
	Admin          AdminConfig
}

// AdminConfig — учётка, которую сидер создаёт, если в базе ещё нет ни одного ADMIN.
type AdminConfig struct {
	Email    string
	DNI      string
	Password string
}

// Load читает окружение; .env подхватывается, если он есть.
func Load() (*Config, error) {
	_ = godotenv.Load()

	tz := getenv("TZ", "Europe/Madrid")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	dsn, err := requireEnv("DATABASE_URL")
	if err != nil {
		return nil, err
	}
	maxOpen, err := getInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, err
	}
	every, err := getDuration("REMINDER_EVERY", time.Minute)
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:    dsn,
		DBMaxOpenConns: maxOpen,
		BotToken:       os.Getenv("BOT_TOKEN"),
		Location:       loc,
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Env:            getenv("ENV", "dev"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		ReminderEvery:  every,
		Admin: AdminConfig{
			Email:    getenv("ADMIN_EMAIL", "admin@autoescuela.com"),
			DNI:      getenv("ADMIN_DNI", "00000000A"),
			Password: getenv("ADMIN_PASSWORD", "admin123"),
		},
	}, nil
}

func requireEnv(k string) (string, error) {
	v := os.Getenv(k)
	if v == "" {
		return "", errors.New("required env " + k + " is empty")
	}
	return v, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
