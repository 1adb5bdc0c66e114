package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage
	DataBackend   string // "flatfile" or "sqlite"
	DataDirectory string // flat-file store location
	SQLiteDBPath  string

	// AMQP (optional; enables the out-of-process report worker)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Reports
	ReportOutputDir string
	ReportMaxJobs   int
	ReportTimeout   time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:   getEnv("DATA_BACKEND", "flatfile"),
		DataDirectory: getEnv("DATA_DIR", "./data"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/bling.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "bling"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_requests"),

		ReportOutputDir: getEnv("REPORT_OUTPUT_DIR", "./reports"),
		ReportMaxJobs:   getEnvInt("REPORT_MAX_JOBS", 2),
		ReportTimeout:   getEnvDuration("REPORT_TIMEOUT", 60*time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "flatfile":
		if c.DataDirectory == "" {
			errs = append(errs, "data directory cannot be empty when using flatfile backend")
		} else if err := ensureDir(c.DataDirectory); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDirectory, err))
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if err := ensureDir(filepath.Dir(c.SQLiteDBPath)); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create SQLite database directory: %v", err))
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [flatfile sqlite]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ReportOutputDir == "" {
		errs = append(errs, "report output directory cannot be empty")
	} else if err := ensureDir(c.ReportOutputDir); err != nil {
		errs = append(errs, fmt.Sprintf("cannot create report output directory '%s': %v", c.ReportOutputDir, err))
	}

	if c.ReportMaxJobs < 1 {
		errs = append(errs, fmt.Sprintf("invalid report max jobs %d: must be at least 1", c.ReportMaxJobs))
	} else if c.ReportMaxJobs > 64 {
		errs = append(errs, fmt.Sprintf("invalid report max jobs %d: must be at most 64", c.ReportMaxJobs))
	}

	if c.ReportTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid report timeout %v: must be at least 1 second", c.ReportTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func ensureDir(dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
