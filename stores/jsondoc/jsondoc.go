// Package jsondoc holds the identifier and document encoding shared by the
// backends that persist documents as JSON blobs (memory, sqlite, filesystem
// and S3). Their native identifier is a ULID, which sorts by creation time.
package jsondoc

import (
	"encoding/json"
	"fmt"
	"strings"

	"news-api/core"

	"github.com/oklog/ulid/v2"
)

func NewID() ulid.ULID {
	return ulid.Make()
}

func ParseID(id string) (any, error) {
	native, err := ulid.ParseStrict(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidID, id)
	}
	return native, nil
}

func FormatID(native any) (string, bool) {
	id, ok := native.(ulid.ULID)
	if !ok {
		return "", false
	}
	return id.String(), true
}

// IDFilter extracts the native identifier of an identifier lookup.
func IDFilter(filter core.Filter) (ulid.ULID, bool) {
	id, ok := filter[core.NativeIDField].(ulid.ULID)
	return id, ok
}

// Marshal encodes record together with its identifier.
func Marshal(id ulid.ULID, record any) ([]byte, error) {
	doc, err := ToDocument(record)
	if err != nil {
		return nil, err
	}
	doc[core.NativeIDField] = id.String()
	return json.Marshal(doc)
}

// Unmarshal decodes a stored blob, restoring the native identifier.
func Unmarshal(data []byte) (core.Document, error) {
	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	raw, _ := doc[core.NativeIDField].(string)
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		return nil, fmt.Errorf("decode document id %q: %w", raw, err)
	}
	doc[core.NativeIDField] = id
	return doc, nil
}

// ToDocument converts record into its field map using its JSON encoding.
func ToDocument(record any) (core.Document, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: encode record: %v", core.ErrWriteFailure, err)
	}
	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: record is not an object: %v", core.ErrWriteFailure, err)
	}
	return doc, nil
}

// CheckCollection rejects collection names that cannot be used as a single
// path segment or key prefix.
func CheckCollection(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid collection name %q", name)
	}
	return nil
}
