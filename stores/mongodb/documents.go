package mongodb

import (
	"context"
	"fmt"
	"time"

	"news-api/core"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pingTimeout = 5 * time.Second

type documentStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewDocumentStore connects to the database named databaseName at url. When
// either is empty the store is returned unset and every data call fails with
// core.ErrStoreUnavailable.
func NewDocumentStore(ctx context.Context, url, databaseName string) (core.DocumentStore, error) {
	if url == "" || databaseName == "" {
		logrus.Warn("DATABASE_URL or DATABASE_NAME not set, document store unavailable")
		return &documentStore{}, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	log := logrus.WithField("database", databaseName)
	if err := client.Ping(pingCtx, nil); err != nil {
		// The driver reconnects on demand; requests will surface the error.
		log.WithError(err).Warn("MongoDB not reachable yet")
	} else {
		log.Info("MongoDB connected")
	}

	return &documentStore{client: client, db: client.Database(databaseName)}, nil
}

func (s *documentStore) Create(ctx context.Context, collection string, record any) (string, error) {
	if s.db == nil {
		return "", core.ErrStoreUnavailable
	}
	res, err := s.db.Collection(collection).InsertOne(ctx, record)
	if err != nil {
		logrus.WithField("collection", collection).WithError(err).Error("Failed to create document")
		return "", fmt.Errorf("%w: %v", core.ErrWriteFailure, err)
	}
	id, ok := s.FormatID(res.InsertedID)
	if !ok {
		id = fmt.Sprint(res.InsertedID)
	}
	logrus.WithFields(logrus.Fields{
		"collection":  collection,
		"document_id": id,
	}).Debug("Document created")
	return id, nil
}

func (s *documentStore) Find(ctx context.Context, collection string, filter core.Filter, limit int64) ([]core.Document, error) {
	if s.db == nil {
		return nil, core.ErrStoreUnavailable
	}
	docs := []core.Document{}
	if limit <= 0 {
		return docs, nil
	}

	query := bson.M{}
	for field, value := range filter {
		query[field] = value
	}
	cursor, err := s.db.Collection(collection).Find(ctx, query, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	for _, result := range results {
		docs = append(docs, core.Document(result))
	}
	return docs, nil
}

func (s *documentStore) ParseID(id string) (any, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidID, id)
	}
	return oid, nil
}

func (s *documentStore) FormatID(native any) (string, bool) {
	oid, ok := native.(primitive.ObjectID)
	if !ok {
		return "", false
	}
	return oid.Hex(), true
}

func (s *documentStore) Name() string {
	if s.db == nil {
		return ""
	}
	return s.db.Name()
}

func (s *documentStore) Connected() bool { return s.db != nil }

func (s *documentStore) Collections(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, core.ErrStoreUnavailable
	}
	return s.db.ListCollectionNames(ctx, bson.D{})
}

func (s *documentStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
