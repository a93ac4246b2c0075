package core

import (
	"context"
	"fmt"
	"reflect"
)

// NormalizeID returns a copy of doc with the native identifier removed and
// its public string form stored under PublicIDField. Every read path must
// pass documents through here before they leave the service.
func NormalizeID(store DocumentStore, doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	native, ok := out[NativeIDField]
	if !ok {
		return out
	}
	delete(out, NativeIDField)
	if id, ok := store.FormatID(native); ok {
		out[PublicIDField] = id
	} else {
		out[PublicIDField] = fmt.Sprint(native)
	}
	return out
}

// Match reports whether doc carries every field of filter with an equal
// value. Backends without native query support filter with it.
func Match(doc Document, filter Filter) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// Collection binds a DocumentStore to one named collection holding records
// of type T.
type Collection[T any] struct {
	store DocumentStore
	name  string
}

func NewCollection[T any](store DocumentStore, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

func (c *Collection[T]) Store() DocumentStore { return c.store }

func (c *Collection[T]) Insert(ctx context.Context, record *T) (string, error) {
	return c.store.Create(ctx, c.name, record)
}

func (c *Collection[T]) Find(ctx context.Context, filter Filter, limit int64) ([]Document, error) {
	return c.store.Find(ctx, c.name, filter, limit)
}

// FindID looks up a single document by its public identifier. It fails with
// ErrInvalidID for malformed identifiers and ErrNotFound when nothing matches.
func (c *Collection[T]) FindID(ctx context.Context, id string) (Document, error) {
	native, err := c.store.ParseID(id)
	if err != nil {
		return nil, err
	}
	docs, err := c.store.Find(ctx, c.name, Filter{NativeIDField: native}, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return docs[0], nil
}
