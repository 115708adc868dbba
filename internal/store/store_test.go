package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/imgvault/imgvault/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := New(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func makeResult(id string, ts time.Time) model.Result {
	return model.NewResult(id, "pic-"+id[:4]+".bmp", model.OpEncrypt, model.ModeECB, ts)
}

func TestCreateAndGetResult(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	id := model.NewID()

	if err := s.CreateResult(ctx, makeResult(id, now)); err != nil {
		t.Fatalf("CreateResult: %v", err)
	}

	got, err := s.GetResult(ctx, id)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got.ID != id {
		t.Errorf("ID = %q, want %q", got.ID, id)
	}
	if got.Op != model.OpEncrypt || got.Mode != model.ModeECB {
		t.Errorf("Op/Mode = %q/%q", got.Op, got.Mode)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, now)
	}
}

func TestGetResult_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetResult(context.Background(), model.NewID())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestLatestResultID_Empty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LatestResultID(context.Background())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestLatestResultID_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	first := model.NewID()
	second := model.NewID()
	if err := s.CreateResult(ctx, makeResult(first, base)); err != nil {
		t.Fatalf("CreateResult: %v", err)
	}
	if err := s.CreateResult(ctx, makeResult(second, base.Add(time.Nanosecond))); err != nil {
		t.Fatalf("CreateResult: %v", err)
	}

	id, err := s.LatestResultID(ctx)
	if err != nil {
		t.Fatalf("LatestResultID: %v", err)
	}
	if id != second {
		t.Errorf("latest = %q, want %q", id, second)
	}
}

func TestLatestResultID_TieBrokenByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ts := time.Now().UTC()

	a := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	b := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	for _, id := range []string{b, a} {
		if err := s.CreateResult(ctx, makeResult(id, ts)); err != nil {
			t.Fatalf("CreateResult: %v", err)
		}
	}

	id, err := s.LatestResultID(ctx)
	if err != nil {
		t.Fatalf("LatestResultID: %v", err)
	}
	if id != b {
		t.Errorf("latest = %q, want %q (greatest id wins ties)", id, b)
	}
}

func TestCountResults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.CountResults(ctx)
	if err != nil {
		t.Fatalf("CountResults: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}

	for i := 0; i < 3; i++ {
		if err := s.CreateResult(ctx, makeResult(model.NewID(), time.Now().UTC())); err != nil {
			t.Fatalf("CreateResult: %v", err)
		}
	}
	n, err = s.CountResults(ctx)
	if err != nil {
		t.Fatalf("CountResults: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := model.NewID()
	now := time.Now().UTC()

	if err := s.CreateResult(ctx, makeResult(id, now)); err != nil {
		t.Fatalf("CreateResult: %v", err)
	}
	if err := s.CreateResult(ctx, makeResult(id, now)); err == nil {
		t.Fatal("expected primary key violation on duplicate id")
	}
}
