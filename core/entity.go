package core

import (
	"context"
)

// NativeIDField is the field under which every backend keeps a document's
// store-generated identifier. PublicIDField is what clients see instead.
const (
	NativeIDField = "_id"
	PublicIDField = "id"
)

type (
	// Document is a stored record as returned by a backend, still bearing
	// its native identifier under NativeIDField.
	Document map[string]any

	// Filter maps field names to exact-match values. A nil or empty filter
	// matches every document of a collection.
	Filter map[string]any

	// DocumentStore is the generic create/read accessor over named
	// collections of a document database.
	DocumentStore interface {
		// Create inserts record into collection and returns the new
		// identifier in its public string form.
		Create(ctx context.Context, collection string, record any) (string, error)
		// Find returns at most limit documents of collection matching filter,
		// in the backend's natural order.
		Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error)

		// ParseID converts a public identifier into the backend's native
		// identifier type, failing with ErrInvalidID when malformed.
		ParseID(id string) (any, error)
		// FormatID converts a native identifier into its public string form.
		FormatID(native any) (string, bool)

		Name() string
		Connected() bool
		Collections(ctx context.Context) ([]string, error)
		Close(ctx context.Context) error
	}
)

// Article is the only entity the service manages. The identifier is absent
// on purpose: it is assigned by the store at insert time.
type Article struct {
	Title    string   `json:"title" bson:"title"`
	Summary  *string  `json:"summary" bson:"summary"`
	Content  string   `json:"content" bson:"content"`
	Author   string   `json:"author" bson:"author"`
	Category string   `json:"category" bson:"category"`
	ImageURL *string  `json:"image_url" bson:"image_url"`
	Tags     []string `json:"tags" bson:"tags"`
}

// ArticleCollection is the collection articles are stored in.
const ArticleCollection = "article"
