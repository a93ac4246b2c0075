package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"news-api/core"
	"news-api/stores/jsondoc"

	"github.com/sirupsen/logrus"
)

type documentStore struct {
	basePath string // Directory holding one sub-directory per collection.
}

func NewDocumentStore(basePath string) (core.DocumentStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &documentStore{basePath: basePath}, nil
}

func (s *documentStore) Create(ctx context.Context, collection string, record any) (string, error) {
	if err := jsondoc.CheckCollection(collection); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrWriteFailure, err)
	}
	id := jsondoc.NewID()
	data, err := jsondoc.Marshal(id, record)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.basePath, collection)
	filePath := filepath.Join(dir, id.String())
	log := logrus.WithFields(logrus.Fields{
		"document_id": id.String(),
		"file_path":   filePath,
	})

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.WithField("error", err).Error("Failed to create collection directory")
		return "", fmt.Errorf("%w: %v", core.ErrWriteFailure, err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.WithField("error", err).Error("Failed to create document")
		return "", fmt.Errorf("%w: %v", core.ErrWriteFailure, err)
	}
	log.Debug("Document created")
	return id.String(), nil
}

func (s *documentStore) Find(ctx context.Context, collection string, filter core.Filter, limit int64) ([]core.Document, error) {
	if err := jsondoc.CheckCollection(collection); err != nil {
		return nil, err
	}
	docs := []core.Document{}
	if limit <= 0 {
		return docs, nil
	}
	dir := filepath.Join(s.basePath, collection)

	if id, ok := jsondoc.IDFilter(filter); ok {
		doc, err := s.read(filepath.Join(dir, id.String()))
		if os.IsNotExist(err) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		if core.Match(doc, filter) {
			docs = append(docs, doc)
		}
		return docs, nil
	}

	// ReadDir sorts by file name, and ULID names sort by creation time.
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return docs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	for _, entry := range entries {
		if int64(len(docs)) >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		doc, err := s.read(filepath.Join(dir, entry.Name()))
		if err != nil {
			logrus.WithField("file_path", entry.Name()).WithError(err).Warn("Skipping unreadable document")
			continue
		}
		if core.Match(doc, filter) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *documentStore) read(filePath string) (core.Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return jsondoc.Unmarshal(data)
}

func (s *documentStore) ParseID(id string) (any, error)     { return jsondoc.ParseID(id) }
func (s *documentStore) FormatID(native any) (string, bool) { return jsondoc.FormatID(native) }

func (s *documentStore) Name() string { return s.basePath }

func (s *documentStore) Connected() bool {
	info, err := os.Stat(s.basePath)
	return err == nil && info.IsDir()
}

func (s *documentStore) Collections(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *documentStore) Close(ctx context.Context) error { return nil }
