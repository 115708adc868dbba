package result

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/imgvault/imgvault/internal/blob"
	"github.com/imgvault/imgvault/internal/model"
	"github.com/imgvault/imgvault/internal/store"
)

func newTestStores(t *testing.T) (blob.Store, *store.Store) {
	t.Helper()
	blobs, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "meta.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	meta, err := store.New(db)
	if err != nil {
		t.Fatalf("meta store: %v", err)
	}
	return blobs, meta
}

func TestSubmitRoundTrip(t *testing.T) {
	blobs, meta := newTestStores(t)
	reg := NewRegistrar(blobs, meta)
	rd := NewReader(blobs, meta)
	ctx := context.Background()

	payload := bytes.Repeat([]byte{0x42}, 512)
	id, err := reg.Submit(ctx, "a.bmp", model.OpEncrypt, model.ModeECB, payload)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !model.ValidID(id) {
		t.Fatalf("Submit returned malformed id %q", id)
	}

	rc, err := rd.Open(ctx, id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: got %d bytes, want %d", len(got), len(payload))
	}

	latest, err := rd.LatestID(ctx)
	if err != nil {
		t.Fatalf("LatestID: %v", err)
	}
	if latest != id {
		t.Errorf("latest = %q, want %q", latest, id)
	}
}

func TestSubmitValidation(t *testing.T) {
	blobs, meta := newTestStores(t)
	reg := NewRegistrar(blobs, meta)
	rd := NewReader(blobs, meta)
	ctx := context.Background()

	cases := []struct {
		label          string
		name, op, mode string
		content        []byte
	}{
		{"empty name", "", "encrypt", "ECB", []byte{1}},
		{"empty op", "a.bmp", "", "ECB", []byte{1}},
		{"empty mode", "a.bmp", "encrypt", "", []byte{1}},
		{"empty content", "a.bmp", "encrypt", "ECB", nil},
	}
	for _, c := range cases {
		_, err := reg.Submit(ctx, c.name, c.op, c.mode, c.content)
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: err = %v, want ValidationError", c.label, err)
		}
	}

	// Validation failures must leave no trace in either store.
	if _, err := rd.LatestID(ctx); !errors.Is(err, model.ErrNoResults) {
		t.Errorf("LatestID after rejected submits = %v, want ErrNoResults", err)
	}
}

// failingBlobStore fails every write, simulating an unreachable object store.
type failingBlobStore struct{}

func (failingBlobStore) Put(context.Context, string, io.Reader) error {
	return fmt.Errorf("connection refused")
}
func (failingBlobStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, blob.ErrNotExist
}
func (failingBlobStore) Exists(context.Context, string) (bool, error) { return false, nil }
func (failingBlobStore) Close() error                                 { return nil }

func TestSubmitBlobWriteFailure(t *testing.T) {
	_, meta := newTestStores(t)
	reg := NewRegistrar(failingBlobStore{}, meta)
	rd := NewReader(failingBlobStore{}, meta)
	ctx := context.Background()

	_, err := reg.Submit(ctx, "a.bmp", model.OpEncrypt, model.ModeCBC, []byte{1, 2, 3})
	var serr *model.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want StorageError", err)
	}
	if serr.Store != model.StoreBlob || serr.Op != model.OpWrite {
		t.Errorf("StorageError = %s/%s, want blob/write", serr.Store, serr.Op)
	}

	// Nothing may be registered after a failed binary write.
	if _, err := rd.LatestID(ctx); !errors.Is(err, model.ErrNoResults) {
		t.Errorf("LatestID after failed write = %v, want ErrNoResults", err)
	}
}

// failingMetaWriter fails every insert, simulating a down metadata store.
type failingMetaWriter struct{}

func (failingMetaWriter) CreateResult(context.Context, model.Result) error {
	return fmt.Errorf("too many connections")
}

func TestSubmitMetadataWriteFailure(t *testing.T) {
	blobs, _ := newTestStores(t)
	reg := NewRegistrar(blobs, failingMetaWriter{})
	ctx := context.Background()

	_, err := reg.Submit(ctx, "a.bmp", model.OpEncrypt, model.ModeECB, []byte{9, 9, 9})
	var serr *model.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want StorageError", err)
	}
	if serr.Store != model.StoreMeta || serr.Op != model.OpWrite {
		t.Errorf("StorageError = %s/%s, want metadata/write", serr.Store, serr.Op)
	}
}

func TestSubmitLatestWins(t *testing.T) {
	blobs, meta := newTestStores(t)
	reg := NewRegistrar(blobs, meta)
	rd := NewReader(blobs, meta)
	ctx := context.Background()

	first, err := reg.Submit(ctx, "a.bmp", model.OpEncrypt, model.ModeECB, []byte{1})
	if err != nil {
		t.Fatalf("Submit a: %v", err)
	}
	second, err := reg.Submit(ctx, "b.bmp", model.OpDecrypt, model.ModeCBC, []byte{2})
	if err != nil {
		t.Fatalf("Submit b: %v", err)
	}
	if first == second {
		t.Fatal("ids must be unique")
	}

	latest, err := rd.LatestID(ctx)
	if err != nil {
		t.Fatalf("LatestID: %v", err)
	}
	if latest != second {
		t.Errorf("latest = %q, want %q (second submit)", latest, second)
	}
}

func TestNextTimestampMonotonic(t *testing.T) {
	reg := NewRegistrar(nil, nil)
	prev := reg.nextTimestamp()
	for i := 0; i < 1000; i++ {
		ts := reg.nextTimestamp()
		if !ts.After(prev) {
			t.Fatalf("timestamp %v not after %v", ts, prev)
		}
		prev = ts
	}
}
