package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"news-api/core"
	"news-api/stores/jsondoc"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	collection TEXT NOT NULL,
	data BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_collection ON documents (collection);`

type documentStore struct {
	db             *sql.DB
	dataSourceName string
}

func NewDocumentStore(dataSourceName string) (core.DocumentStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dataSourceName, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &documentStore{db: db, dataSourceName: dataSourceName}, nil
}

func (s *documentStore) Create(ctx context.Context, collection string, record any) (string, error) {
	id := jsondoc.NewID()
	data, err := jsondoc.Marshal(id, record)
	if err != nil {
		return "", err
	}
	log := logrus.WithFields(logrus.Fields{
		"collection":  collection,
		"document_id": id.String(),
		"data_length": len(data),
	})

	_, err = s.db.ExecContext(ctx, "INSERT INTO documents (id, collection, data) VALUES (?, ?, ?)", id.String(), collection, data)
	if err != nil {
		log.WithField("error", err).Error("Failed to create document")
		return "", fmt.Errorf("%w: %v", core.ErrWriteFailure, err)
	}
	log.Debug("Document created")
	return id.String(), nil
}

func (s *documentStore) Find(ctx context.Context, collection string, filter core.Filter, limit int64) ([]core.Document, error) {
	docs := []core.Document{}
	if limit <= 0 {
		return docs, nil
	}

	if id, ok := jsondoc.IDFilter(filter); ok {
		var data []byte
		err := s.db.QueryRowContext(ctx, "SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id.String()).Scan(&data)
		if errors.Is(err, sql.ErrNoRows) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find %s in %s: %w", id, collection, err)
		}
		doc, err := jsondoc.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		if core.Match(doc, filter) {
			docs = append(docs, doc)
		}
		return docs, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT data FROM documents WHERE collection = ? ORDER BY rowid", collection)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer rows.Close()

	for rows.Next() && int64(len(docs)) < limit {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		doc, err := jsondoc.Unmarshal(data)
		if err != nil {
			logrus.WithField("collection", collection).WithError(err).Warn("Skipping undecodable document")
			continue
		}
		if core.Match(doc, filter) {
			docs = append(docs, doc)
		}
	}
	return docs, rows.Err()
}

func (s *documentStore) ParseID(id string) (any, error)     { return jsondoc.ParseID(id) }
func (s *documentStore) FormatID(native any) (string, bool) { return jsondoc.FormatID(native) }

func (s *documentStore) Name() string { return s.dataSourceName }

func (s *documentStore) Connected() bool {
	return s.db.Ping() == nil
}

func (s *documentStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT collection FROM documents ORDER BY collection")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *documentStore) Close(ctx context.Context) error {
	return s.db.Close()
}
