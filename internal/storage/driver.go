// Package storage provides generic CRUD over named collections of JSON
// documents. The Driver interface is the port; SQLite is the production
// adapter and Memory backs tests and the memory data backend.
package storage

import "context"

// Driver is the document-store port. Documents are JSON blobs keyed by
// an opaque identifier within a named collection. Implementations open
// their underlying engine lazily and perform schema setup on first use.
type Driver interface {
	// Insert writes a new document. Inserting an existing id is an error.
	Insert(ctx context.Context, collection, id string, doc []byte) error
	// Get returns the document, or ok=false when the id is unknown.
	Get(ctx context.Context, collection, id string) (doc []byte, ok bool, err error)
	// List returns every document in the collection, order unspecified.
	List(ctx context.Context, collection string) ([][]byte, error)
	// Put replaces the document under id, inserting if absent.
	Put(ctx context.Context, collection, id string, doc []byte) error
	// Delete removes the document. Unknown ids are not an error.
	Delete(ctx context.Context, collection, id string) error
	// Close releases the underlying engine.
	Close() error
}
