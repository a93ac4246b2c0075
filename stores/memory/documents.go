package memory

import (
	"context"
	"sort"
	"sync"

	"news-api/core"
	"news-api/stores/jsondoc"

	"github.com/sirupsen/logrus"
)

type documentStore struct {
	mu          sync.RWMutex
	collections map[string][]core.Document
}

func NewDocumentStore() core.DocumentStore {
	return &documentStore{collections: make(map[string][]core.Document)}
}

func (s *documentStore) Create(ctx context.Context, collection string, record any) (string, error) {
	doc, err := jsondoc.ToDocument(record)
	if err != nil {
		return "", err
	}
	id := jsondoc.NewID()
	doc[core.NativeIDField] = id

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], doc)
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"collection":  collection,
		"document_id": id.String(),
	}).Debug("Document created")
	return id.String(), nil
}

func (s *documentStore) Find(ctx context.Context, collection string, filter core.Filter, limit int64) ([]core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := []core.Document{}
	for _, doc := range s.collections[collection] {
		if int64(len(docs)) >= limit {
			break
		}
		if core.Match(doc, filter) {
			docs = append(docs, clone(doc))
		}
	}
	return docs, nil
}

func (s *documentStore) ParseID(id string) (any, error)     { return jsondoc.ParseID(id) }
func (s *documentStore) FormatID(native any) (string, bool) { return jsondoc.FormatID(native) }

func (s *documentStore) Name() string    { return "memory" }
func (s *documentStore) Connected() bool { return true }

func (s *documentStore) Collections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *documentStore) Close(ctx context.Context) error { return nil }

// clone copies the top level of doc so callers cannot alter stored state.
func clone(doc core.Document) core.Document {
	out := make(core.Document, len(doc))
	for k, v := range doc {
		if list, ok := v.([]any); ok {
			cp := make([]any, len(list))
			copy(cp, list)
			v = cp
		}
		out[k] = v
	}
	return out
}
