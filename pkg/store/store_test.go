package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/treetui/pkg/config"
)

// testStore runs the behavior every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	doc := &Document{Profile: "cargo", InputHash: "abc", Nodes: 3, Marker: " (*)", Tree: []byte(`{"root":0}`)}
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if len(doc.ID) != 36 {
		t.Errorf("Put() assigned id %q, want a uuid", doc.ID)
	}
	if doc.CreatedAt.IsZero() {
		t.Error("Put() did not set CreatedAt")
	}

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Profile != "cargo" || got.InputHash != "abc" || got.Nodes != 3 || got.Marker != " (*)" || string(got.Tree) != `{"root":0}` {
		t.Errorf("Get() = %+v", got)
	}
	if !got.CreatedAt.Equal(doc.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, doc.CreatedAt)
	}

	if err := s.Put(ctx, &Document{ID: doc.ID, Tree: []byte("{}")}); !errors.Is(err, ErrExists) {
		t.Errorf("Put(duplicate) = %v, want ErrExists", err)
	}

	older := &Document{Profile: "default", CreatedAt: doc.CreatedAt.Add(-time.Hour), Tree: []byte("{}")}
	if err := s.Put(ctx, older); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != doc.ID || list[1].ID != older.ID {
		t.Fatalf("List() = %+v, want newest first", list)
	}
	if list[0].Tree != nil {
		t.Error("List() should omit trees")
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) returned %d documents", len(list))
	}

	if err := s.Delete(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(deleted) = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := &Document{Tree: []byte("abc")}
	_ = s.Put(ctx, doc)
	doc.Tree[0] = 'x'

	got, _ := s.Get(ctx, doc.ID)
	if string(got.Tree) != "abc" {
		t.Errorf("stored tree changed to %q", got.Tree)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "trees.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStoreInMemory(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.ServerConfig{Store: config.StoreMemory})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	s, err = Open(ctx, config.ServerConfig{Store: config.StoreSQLite, DSN: filepath.Join(t.TempDir(), "t.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("Open(sqlite) = %T", s)
	}

	if _, err := Open(ctx, config.ServerConfig{Store: "etcd"}); err == nil {
		t.Error("Open(etcd) should fail")
	}
}
