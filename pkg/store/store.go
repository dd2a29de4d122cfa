// Package store keeps parsed trees for the HTTP API.
//
// Backends:
//   - memory: process-local storage for development and tests
//   - sqlite: single-file storage ([modernc.org/sqlite], no cgo)
//   - mongo: shared storage for several API instances
//
// Documents are immutable once stored; the API creates and deletes them but
// never updates them.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExists is returned by Put when the id is already taken.
	ErrExists = errors.New("already exists")
)

// Document is a stored tree.
type Document struct {
	ID        string `json:"id" bson:"_id"`
	Profile   string `json:"profile" bson:"profile"`
	InputHash string `json:"input_hash" bson:"input_hash"`
	Nodes     int    `json:"nodes" bson:"nodes"`
	// Marker is the duplicate marker folded on read; empty means unfolded.
	Marker    string    `json:"marker,omitempty" bson:"marker,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	// Tree is the arena in pkg/io JSON form.
	Tree []byte `json:"-" bson:"tree"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Put stores doc. An empty ID is replaced by a fresh one and a zero
	// CreatedAt by the current time.
	Put(ctx context.Context, doc *Document) error

	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, id string) (*Document, error)

	// Delete removes the document or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns up to limit documents, newest first, without their trees.
	List(ctx context.Context, limit int) ([]*Document, error)

	// Close releases backend resources.
	Close() error
}

// NewID returns a random document id.
func NewID() string {
	return uuid.NewString()
}

// prepare fills in the generated fields of doc.
func prepare(doc *Document) {
	if doc.ID == "" {
		doc.ID = NewID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	doc.CreatedAt = doc.CreatedAt.Truncate(time.Millisecond)
}
