// Package store provides the document-store collaborator: keyed JSON
// documents with merge-on-write upsert semantics and in-process change
// notification.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collections used by the services.
const (
	UsersCollection       = "users"
	ProgressCollection    = "userProgress"
	EnrollmentsCollection = "enrollments"
	XPEventsCollection    = "xpEvents"
)

// Document is one stored JSON document. Field keys passed to MergeSet may use
// dotted paths ("gamification.xp") to address nested fields.
type Document map[string]any

// Store is the document-store interface the services operate against.
type Store interface {
	// Get returns the document at collection/key, or ErrNotFound.
	Get(ctx context.Context, collection, key string) (Document, error)
	// MergeSet upserts the given fields into the document at collection/key,
	// creating it if absent. Fields not named are left untouched; map values
	// merge recursively rather than clobbering siblings.
	MergeSet(ctx context.Context, collection, key string, fields Document) error
	// Subscribe registers fn to run after every successful MergeSet on
	// collection/key. The returned func cancels the subscription. Used by the
	// watch endpoints, not by the core services.
	Subscribe(collection, key string, fn func(Document)) (cancel func())
}

// ErrNotFound marks an absent document. Callers treat it as an implicit
// default state, never as a failure.
var ErrNotFound = errors.New("store: document not found")

// PersistenceError wraps a failed read or write against the backing database.
type PersistenceError struct {
	Op         string
	Collection string
	Key        string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s %s/%s: %v", e.Op, e.Collection, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Decode unmarshals a document (or sub-document) into a typed record. This is
// the boundary where loosely-typed store data becomes a concrete schema.
func Decode(v any, out any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Sub returns the nested document at a dotted path, or nil when any step of
// the path is absent or not an object.
func Sub(doc Document, path string) Document {
	cur := doc
	for _, part := range splitPath(path) {
		next, ok := cur[part].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}
