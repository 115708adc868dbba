// Package blob contains binary object store implementations.
//
// The Registrar and Reader depend on the Store interface rather than a
// concrete backend so the persistence layer can be swapped without touching
// calling code: a filesystem backend for local runs and a Redis backend for
// shared deployments, plus whatever a test wants to substitute.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned when no object is stored under the given id.
var ErrNotExist = errors.New("blob does not exist")

// Store is a binary object store keyed by result id. Writes must be durable
// and readable before Put returns; an object, once written, is never mutated.
type Store interface {
	// Put streams the full content of r into the object stored under id.
	Put(ctx context.Context, id string, r io.Reader) error

	// Open returns a streamed read of the object stored under id, or
	// ErrNotExist. The caller owns closing the returned reader.
	Open(ctx context.Context, id string) (io.ReadCloser, error)

	// Exists reports whether an object is stored under id, without
	// retrieving its content.
	Exists(ctx context.Context, id string) (bool, error)

	// Close releases backend resources.
	Close() error
}
