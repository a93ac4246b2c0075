package stores

import (
	"context"

	"news-api/config"
	"news-api/core"
	"news-api/handlers/metrics"
	"news-api/stores/aws"
	"news-api/stores/filesystem"
	"news-api/stores/memory"
	"news-api/stores/mongodb"
	"news-api/stores/sqlite"

	"github.com/sirupsen/logrus"
)

// GetStore opens the backend selected by cfg.StorageType.
func GetStore(ctx context.Context, cfg *config.Config) (core.DocumentStore, error) {
	var (
		store core.DocumentStore
		err   error
	)

	storageField := logrus.Fields{
		"storageType": cfg.StorageType,
	}

	switch cfg.StorageType {
	case config.StorageFilesystem:
		storageField["basePath"] = cfg.LocalStoragePath
		store, err = filesystem.NewDocumentStore(cfg.LocalStoragePath)
	case config.StorageSQLite:
		storageField["dataSourceName"] = cfg.DataSourceName
		store, err = sqlite.NewDocumentStore(cfg.DataSourceName)
	case config.StorageS3:
		storageField["bucketName"] = cfg.S3BucketName
		store, err = aws.NewDocumentStore(ctx, cfg.S3BucketName)
	case config.StorageMemory:
		store = memory.NewDocumentStore()
	default:
		storageField["storageType"] = config.StorageMongoDB
		storageField["databaseName"] = cfg.DatabaseName
		store, err = mongodb.NewDocumentStore(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(storageField).Info("Use storage")
	return metrics.InstrumentStore(store, storageField["storageType"].(string)), nil
}
