package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/cabinkeeper/internal/flagx"
	"github.com/dmitrijs2005/cabinkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used only for config file unmarshalling. Pointer fields
// let an absent key keep the value from the previous stage.
type FileConfig struct {
	StoreDriver *string `json:"store_driver" yaml:"store_driver"`
	SQLitePath  *string `json:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN *string `json:"database_dsn" yaml:"database_dsn"`

	S3Bucket    *string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region    *string `json:"s3_region" yaml:"s3_region"`
	S3Endpoint  *string `json:"s3_endpoint" yaml:"s3_endpoint"`
	S3AccessKey *string `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey *string `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Prefix    *string `json:"s3_prefix" yaml:"s3_prefix"`

	KeyPrefix    *string `json:"key_prefix" yaml:"key_prefix"`
	SeedCabins   *int    `json:"seed_cabins" yaml:"seed_cabins"`
	PropertyName *string `json:"property_name" yaml:"property_name"`
	WeekStart    *string `json:"week_start" yaml:"week_start"`

	APIKey         *string         `json:"api_key" yaml:"api_key"`
	Model          *string         `json:"model" yaml:"model"`
	InsightTimeout *timex.Duration `json:"insight_timeout" yaml:"insight_timeout"`

	MaxImageBytes *int64  `json:"max_image_bytes" yaml:"max_image_bytes"`
	ExportPath    *string `json:"export_path" yaml:"export_path"`
	ExportCron    *string `json:"export_cron" yaml:"export_cron"`

	LogLevel *string `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file named by -c / -config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.StoreDriver, fc.StoreDriver)
	setString(&cfg.SQLitePath, fc.SQLitePath)
	setString(&cfg.PostgresDSN, fc.PostgresDSN)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3Endpoint, fc.S3Endpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
	setString(&cfg.S3Prefix, fc.S3Prefix)
	setString(&cfg.KeyPrefix, fc.KeyPrefix)
	setString(&cfg.PropertyName, fc.PropertyName)
	setString(&cfg.WeekStart, fc.WeekStart)
	setString(&cfg.APIKey, fc.APIKey)
	setString(&cfg.Model, fc.Model)
	setString(&cfg.ExportPath, fc.ExportPath)
	setString(&cfg.ExportCron, fc.ExportCron)
	setString(&cfg.LogLevel, fc.LogLevel)

	if fc.SeedCabins != nil {
		cfg.SeedCabins = *fc.SeedCabins
	}
	if fc.MaxImageBytes != nil {
		cfg.MaxImageBytes = *fc.MaxImageBytes
	}
	if fc.InsightTimeout != nil {
		cfg.InsightTimeout = fc.InsightTimeout.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
