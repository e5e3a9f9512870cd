package config

import (
	"fmt"
	"kvk-tracker/internal/constants"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath      string
	LogLevel    string
	ReportLimit int
	// sheet to read from workbooks; empty means the first sheet
	Sheet string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:   getEnv("DB_PATH", "kvk.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Sheet:    getEnv("IMPORT_SHEET", ""),
	}

	limit, err := strconv.Atoi(getEnv("REPORT_LIMIT", strconv.Itoa(constants.DefaultReportLimit)))
	if err != nil || limit < 0 {
		return nil, fmt.Errorf("REPORT_LIMIT must be a non-negative integer")
	}
	cfg.ReportLimit = limit

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Int("report_limit", cfg.ReportLimit).
		Str("sheet", cfg.Sheet).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
