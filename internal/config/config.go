package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	TobsWindowStatic  = "static"
	TobsWindowDynamic = "dynamic"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// Driver is the database/sql driver name: sqlite3 (mattn), sqlite (modernc), mysql or postgres.
	Driver          string
	DSN             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool

	// TobsWindow selects how /api/v1.0/tobs picks its station and cutoff.
	TobsWindow  string
	TobsStation string
	TobsSince   string
}

// fileConfig mirrors the optional YAML file pointed to by CONFIG_PATH.
// Environment variables always win over values read from it.
type fileConfig struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`
	HTTPAddr string `yaml:"http_addr"`
	Database struct {
		Driver          string `yaml:"driver"`
		DSN             string `yaml:"dsn"`
		SQLitePath      string `yaml:"sqlite_path"`
		MaxOpenConns    string `yaml:"max_open_conns"`
		MaxIdleConns    string `yaml:"max_idle_conns"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		LogSQL          string `yaml:"log_sql"`
	} `yaml:"database"`
	Tobs struct {
		Window  string `yaml:"window"`
		Station string `yaml:"station"`
		Since   string `yaml:"since"`
	} `yaml:"tobs"`
}

func LoadFromEnv() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	var fc fileConfig
	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("CONFIG_PATH %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return Config{}, fmt.Errorf("CONFIG_PATH %q: parse yaml: %w", path, err)
		}
	}

	appEnv := setting("APP_ENV", fc.AppEnv, "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(setting("LOG_LEVEL", fc.LogLevel, "info"))
	if err != nil {
		return Config{}, err
	}

	httpAddr := setting("HTTP_ADDR", fc.HTTPAddr, ":8080")

	driver := setting("DB_DRIVER", fc.Database.Driver, "sqlite3")
	switch driver {
	case "sqlite3", "sqlite", "mysql", "postgres":
	default:
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q (allowed: sqlite3, sqlite, mysql, postgres)", driver)
	}
	dsn := setting("DB_DSN", fc.Database.DSN, "")
	if dsn == "" && (driver == "mysql" || driver == "postgres") {
		return Config{}, fmt.Errorf("DB_DSN is required for DB_DRIVER %q", driver)
	}
	sqlitePath := setting("SQLITE_PATH", fc.Database.SQLitePath, "Resources/hawaii.sqlite")

	maxOpenConnsStr := setting("DB_MAX_OPEN_CONNS", fc.Database.MaxOpenConns, "4")
	maxOpenConns, err := strconv.Atoi(maxOpenConnsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q: %w", maxOpenConnsStr, err)
	}

	maxIdleConnsStr := setting("DB_MAX_IDLE_CONNS", fc.Database.MaxIdleConns, "4")
	maxIdleConns, err := strconv.Atoi(maxIdleConnsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_IDLE_CONNS %q: %w", maxIdleConnsStr, err)
	}

	connMaxLifetimeStr := setting("DB_CONN_MAX_LIFETIME", fc.Database.ConnMaxLifetime, "0s")
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	logSQLStr := setting("LOG_SQL", fc.Database.LogSQL, "false")
	logSQL, err := strconv.ParseBool(logSQLStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_SQL %q: %w", logSQLStr, err)
	}

	tobsWindow := strings.ToLower(setting("TOBS_WINDOW", fc.Tobs.Window, TobsWindowStatic))
	switch tobsWindow {
	case TobsWindowStatic, TobsWindowDynamic:
	default:
		return Config{}, fmt.Errorf("invalid TOBS_WINDOW %q (allowed: static, dynamic)", tobsWindow)
	}

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		HTTPAddr:        httpAddr,
		Driver:          driver,
		DSN:             dsn,
		SQLitePath:      sqlitePath,
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
		LogSQL:          logSQL,
		TobsWindow:      tobsWindow,
		TobsStation:     setting("TOBS_STATION", fc.Tobs.Station, ""),
		TobsSince:       setting("TOBS_SINCE", fc.Tobs.Since, ""),
	}, nil
}

// loadDotEnv reads ENV_FILE (default .env) into the process environment.
// Variables already set are left alone and a missing default file is fine.
func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("ENV_FILE %q: %w", path, err)
}

func setting(key, fileValue, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if v := strings.TrimSpace(fileValue); v != "" {
		return v
	}
	return def
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
