// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	StorageMongoDB    = "mongodb"
	StorageMemory     = "memory"
	StorageSQLite     = "sqlite"
	StorageFilesystem = "filesystem"
	StorageS3         = "s3"
)

type Config struct {
	Port string

	// StorageType selects the document store backend.
	StorageType string

	// MongoDB
	DatabaseURL  string
	DatabaseName string

	LocalStoragePath string // filesystem backend
	DataSourceName   string // sqlite backend
	S3BucketName     string // s3 backend

	LogLevel  string
	LogFormat string // "text" or "json"
}

// Load reads the configuration, applying defaults. A missing DATABASE_URL or
// DATABASE_NAME is not an error: the store is left unavailable instead.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             envOrDefault("PORT", "8000"),
		StorageType:      envOrDefault("STORAGE_TYPE", StorageMongoDB),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DatabaseName:     os.Getenv("DATABASE_NAME"),
		LocalStoragePath: envOrDefault("LOCAL_STORAGE_PATH", "./data"),
		DataSourceName:   envOrDefault("DATA_SOURCE_NAME", "news.db"),
		S3BucketName:     os.Getenv("S3_BUCKET_NAME"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "text"),
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", cfg.Port)
	}

	switch cfg.StorageType {
	case StorageMongoDB, StorageMemory, StorageSQLite, StorageFilesystem:
	case StorageS3:
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("S3_BUCKET_NAME must be set for STORAGE_TYPE=s3")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_TYPE %q", cfg.StorageType)
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
