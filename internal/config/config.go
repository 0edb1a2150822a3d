package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/cabinkeeper/internal/calendar"
	"github.com/dmitrijs2005/cabinkeeper/internal/repositories/blobs"
)

// Config holds runtime settings for the cabinkeeper CLI.
type Config struct {
	StoreDriver string `envconfig:"CABINKEEPER_STORE_DRIVER"`
	SQLitePath  string `envconfig:"CABINKEEPER_SQLITE_PATH"`
	PostgresDSN string `envconfig:"CABINKEEPER_DATABASE_DSN"`

	S3Bucket    string `envconfig:"CABINKEEPER_S3_BUCKET"`
	S3Region    string `envconfig:"CABINKEEPER_S3_REGION"`
	S3Endpoint  string `envconfig:"CABINKEEPER_S3_ENDPOINT"`
	S3AccessKey string `envconfig:"CABINKEEPER_S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"CABINKEEPER_S3_SECRET_KEY"`
	S3Prefix    string `envconfig:"CABINKEEPER_S3_PREFIX"`

	KeyPrefix    string `envconfig:"CABINKEEPER_KEY_PREFIX"`
	SeedCabins   int    `envconfig:"CABINKEEPER_SEED_CABINS"`
	PropertyName string `envconfig:"CABINKEEPER_PROPERTY_NAME"`
	WeekStart    string `envconfig:"CABINKEEPER_WEEK_START"`

	APIKey         string        `envconfig:"API_KEY"`
	Model          string        `envconfig:"CABINKEEPER_MODEL"`
	InsightTimeout time.Duration `envconfig:"CABINKEEPER_INSIGHT_TIMEOUT"`

	MaxImageBytes int64  `envconfig:"CABINKEEPER_MAX_IMAGE_BYTES"`
	ExportPath    string `envconfig:"CABINKEEPER_EXPORT_PATH"`
	ExportCron    string `envconfig:"CABINKEEPER_EXPORT_CRON"`

	LogLevel string `envconfig:"CABINKEEPER_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreDriver = blobs.DriverSQLite
	c.SQLitePath = "cabinkeeper.db"
	c.S3Region = "us-east-1"
	c.KeyPrefix = "rli_"
	c.SeedCabins = 8
	c.PropertyName = "Rancho Laguna Ita"
	c.WeekStart = "sunday"
	c.Model = "gemini-3-flash-preview"
	c.MaxImageBytes = 5 << 20
	c.ExportPath = "reservations.ics"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the config file, dotenv, the
// environment and args (normally os.Args[1:]), then validates it.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := loadDotenv(args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case blobs.DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite driver requires a database path"))
		}
	case blobs.DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres driver requires a DSN"))
		}
	case blobs.DriverS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("s3 driver requires a bucket"))
		}
	case blobs.DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.StoreDriver))
	}

	if c.SeedCabins <= 0 {
		errs = append(errs, fmt.Errorf("seed cabins must be positive, got %d", c.SeedCabins))
	}
	if _, err := calendar.ParseWeekStart(c.WeekStart); err != nil {
		errs = append(errs, err)
	}
	if c.InsightTimeout < 0 {
		errs = append(errs, errors.New("insight timeout must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// StoreOptions maps the storage settings onto blobs.Options.
func (c *Config) StoreOptions() blobs.Options {
	return blobs.Options{
		Driver:      c.StoreDriver,
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
		S3: blobs.S3Options{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Prefix:    c.S3Prefix,
		},
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
