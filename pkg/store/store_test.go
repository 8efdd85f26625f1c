package store

import (
	"context"
	"testing"
	"time"

	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graphio"
)

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := &Record{
		Name:  "demo",
		Graph: &graphio.Document{Version: 1, Nodes: []graphio.NodeDoc{{ID: "a"}}},
		SVG:   []byte("<svg/>"),
	}
	id, err := s.Put(ctx, rec)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if id == "" {
		t.Fatal("Put() returned an empty id")
	}
	if rec.ID != "" {
		t.Error("Put() wrote the generated id back into the caller's record")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "demo" || got.Graph == nil || len(got.Graph.Nodes) != 1 {
		t.Errorf("Get() = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Get().CreatedAt is zero, want assigned")
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, errors.ErrCodeSceneNotFound) {
		t.Errorf("Get() error = %v, want SCENE_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, errors.ErrCodeSceneNotFound) {
		t.Errorf("Delete() error = %v, want SCENE_NOT_FOUND", err)
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"oldest", "middle", "newest"} {
		_, err := s.Put(ctx, &Record{
			ID:        name,
			Name:      name,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(infos))
	}
	for i, want := range []string{"newest", "middle", "oldest"} {
		if infos[i].Name != want {
			t.Errorf("List()[%d] = %q, want %q", i, infos[i].Name, want)
		}
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Put(ctx, &Record{Name: "temp"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, errors.ErrCodeSceneNotFound) {
		t.Errorf("Get() after Delete() error = %v, want SCENE_NOT_FOUND", err)
	}
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()

	if _, err := s.Put(ctx, &Record{}); err == nil {
		t.Error("Put() with cancelled context succeeded")
	}
	if _, err := s.List(ctx); err == nil {
		t.Error("List() with cancelled context succeeded")
	}
}
