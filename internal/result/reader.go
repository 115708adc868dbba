package result

import (
	"context"
	"database/sql"
	"errors"
	"io"

	"github.com/imgvault/imgvault/internal/blob"
	"github.com/imgvault/imgvault/internal/model"
	"github.com/imgvault/imgvault/internal/store"
)

// Reader answers the two polling questions: "what is the newest result" and
// "give me the bytes for this id". The two paths deliberately hit different
// stores — LatestID never touches the blob store, Open never consults
// metadata — so a blob that landed before its metadata row is already
// fetchable by id.
type Reader struct {
	blobs blob.Store
	meta  store.ResultReader
}

// NewReader creates a Reader over the two stores.
func NewReader(blobs blob.Store, meta store.ResultReader) *Reader {
	return &Reader{blobs: blobs, meta: meta}
}

// LatestID returns the id of the most recently registered result, or
// model.ErrNoResults when nothing has ever been registered. That signal is
// not a failure: a genuinely broken metadata store surfaces as a
// StorageError instead.
func (r *Reader) LatestID(ctx context.Context) (string, error) {
	id, err := r.meta.LatestResultID(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNoResults
	}
	if err != nil {
		return "", model.NewStorageError(model.StoreMeta, model.OpRead, err)
	}
	return id, nil
}

// Open returns a streamed read of the payload stored under id.
//
// A malformed id yields a ValidationError so a poller can tell "I sent
// garbage" from "not ready yet"; a well-formed id with no blob yields
// model.ErrNotFound, the keep-polling signal. Every call re-reads the store;
// nothing is cached, so repeated fetches of the same id return identical
// bytes indefinitely.
func (r *Reader) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if !model.ValidID(id) {
		return nil, model.Validationf("malformed result id %q", id)
	}
	id = model.NormalizeID(id)

	ok, err := r.blobs.Exists(ctx, id)
	if err != nil {
		return nil, model.NewStorageError(model.StoreBlob, model.OpRead, err)
	}
	if !ok {
		return nil, model.ErrNotFound
	}

	rc, err := r.blobs.Open(ctx, id)
	if errors.Is(err, blob.ErrNotExist) {
		// Raced a concurrent delete-out-of-band; indistinguishable from
		// never-written for the poller.
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, model.NewStorageError(model.StoreBlob, model.OpRead, err)
	}
	return rc, nil
}

// Count returns the number of registered results. Used by the health
// endpoint as a cheap liveness probe against the metadata store.
func (r *Reader) Count(ctx context.Context) (int, error) {
	n, err := r.meta.CountResults(ctx)
	if err != nil {
		return 0, model.NewStorageError(model.StoreMeta, model.OpRead, err)
	}
	return n, nil
}

// Meta returns the metadata row for an id. Used by the API to enrich
// responses; not part of the polling fast path.
func (r *Reader) Meta(ctx context.Context, id string) (*model.Result, error) {
	if !model.ValidID(id) {
		return nil, model.Validationf("malformed result id %q", id)
	}
	rec, err := r.meta.GetResult(ctx, model.NormalizeID(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, model.NewStorageError(model.StoreMeta, model.OpRead, err)
	}
	return rec, nil
}
