package memory

import (
	"context"
	"testing"
	"time"

	"github.com/legallens/legal-lens/internal/core/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	Reset()
	store := New()
	ctx := context.Background()

	doc := &domain.ProcessedDocument{ID: "doc-1", FileHash: "abc", UploadTime: time.Now()}
	if err := store.Set(ctx, doc); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := store.Get(ctx, "doc-1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, ok=%v", err, ok)
	}
	if got.FileHash != "abc" {
		t.Fatalf("unexpected hash %q", got.FileHash)
	}

	has, _ := store.Has(ctx, "doc-1")
	if !has {
		t.Fatalf("Has() = false")
	}
	size, _ := store.Size(ctx)
	if size != 1 {
		t.Fatalf("Size() = %d", size)
	}
}

func TestStoreMissIsNotAnError(t *testing.T) {
	Reset()
	store := New()

	_, ok, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("miss must not error, got %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}

	deleted, err := store.Delete(context.Background(), "absent")
	if err != nil || deleted {
		t.Fatalf("Delete(absent) = %v, %v", deleted, err)
	}
}

func TestStoreSharedAcrossInstances(t *testing.T) {
	Reset()
	ctx := context.Background()

	first := New()
	_ = first.Set(ctx, &domain.ProcessedDocument{ID: "doc-1", UploadTime: time.Now()})

	// A freshly constructed store must see the same data.
	second := New()
	_, ok, _ := second.Get(ctx, "doc-1")
	if !ok {
		t.Fatalf("expected shared state across store instances")
	}
}

func TestStoreListOrderedByRecency(t *testing.T) {
	Reset()
	store := New()
	ctx := context.Background()
	now := time.Now()

	_ = store.Set(ctx, &domain.ProcessedDocument{ID: "old", UploadTime: now.Add(-time.Hour)})
	_ = store.Set(ctx, &domain.ProcessedDocument{ID: "new", UploadTime: now})

	docs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "new" || docs[1].ID != "old" {
		t.Fatalf("unexpected order: %v, %v", docs[0].ID, docs[1].ID)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	Reset()
	store := New()
	ctx := context.Background()

	_ = store.Set(ctx, &domain.ProcessedDocument{ID: "doc-1", FileHash: "abc", UploadTime: time.Now()})
	got, _, _ := store.Get(ctx, "doc-1")
	got.FileHash = "mutated"

	again, _, _ := store.Get(ctx, "doc-1")
	if again.FileHash != "abc" {
		t.Fatalf("stored record mutated through returned copy")
	}
}
