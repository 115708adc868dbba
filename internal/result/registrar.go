// Package result implements the two halves of the result lifecycle: the
// Registrar, which an out-of-band transform worker calls exactly once per
// finished payload, and the Reader, which polling clients call until the
// payload they are waiting for shows up.
//
// The payload and its metadata live in two independent stores with no
// transaction spanning them. Consistency comes from write ordering instead:
// the binary object is written and confirmed durable before the metadata row
// is inserted, so any id surfaced by a metadata query is already fetchable.
// The converse window — blob written, metadata insert pending or failed — is
// benign: the id was never returned to a successful caller, and the orphaned
// blob is a bounded leak cleaned up out of band if ever needed.
package result

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/imgvault/imgvault/internal/blob"
	"github.com/imgvault/imgvault/internal/model"
	"github.com/imgvault/imgvault/internal/store"
)

// Registrar persists finished payloads: blob first, metadata second.
type Registrar struct {
	blobs blob.Store
	meta  store.ResultWriter

	// mu guards lastTS so assigned timestamps never decrease, even if the
	// wall clock steps backwards between submits.
	mu     sync.Mutex
	lastTS int64
}

// NewRegistrar creates a Registrar over the two stores.
func NewRegistrar(blobs blob.Store, meta store.ResultWriter) *Registrar {
	return &Registrar{blobs: blobs, meta: meta}
}

// Submit stores a finished payload and returns its freshly assigned id.
//
// On a blob write failure nothing is registered and the id is abandoned; the
// caller may retry with the same input and will get a new id. On a metadata
// insert failure the blob persists but the id is not returned, so no polling
// client ever observes it through the latest-id query.
func (r *Registrar) Submit(ctx context.Context, name, op, mode string, content []byte) (string, error) {
	switch {
	case name == "":
		return "", model.Validationf("name is required")
	case op == "":
		return "", model.Validationf("operation is required")
	case mode == "":
		return "", model.Validationf("mode is required")
	case len(content) == 0:
		return "", model.Validationf("content is empty")
	}

	id := model.NewID()

	if err := r.blobs.Put(ctx, id, bytes.NewReader(content)); err != nil {
		return "", model.NewStorageError(model.StoreBlob, model.OpWrite, err)
	}

	createdAt := r.nextTimestamp()
	rec := model.NewResult(id, name, op, mode, createdAt)
	if err := r.meta.CreateResult(ctx, rec); err != nil {
		return "", model.NewStorageError(model.StoreMeta, model.OpWrite, err)
	}

	return id, nil
}

// nextTimestamp returns the current time, bumped by a nanosecond whenever the
// clock has not advanced past the previously assigned value. Later submits
// therefore always carry strictly greater timestamps and win the latest-id
// query.
func (r *Registrar) nextTimestamp() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC().UnixNano()
	if now <= r.lastTS {
		now = r.lastTS + 1
	}
	r.lastTS = now
	return time.Unix(0, now).UTC()
}
