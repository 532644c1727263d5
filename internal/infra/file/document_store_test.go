package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDocumentStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "questions.json")
	store := NewDocumentStore(path)

	data, err := store.Load(ctx)
	if err != nil || data != nil {
		t.Fatalf("expected empty load for missing file, got %q err=%v", data, err)
	}

	if err := store.Save(ctx, []byte(`{"version":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, []byte(`{"version":1,"questions":{}}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != `{"version":1,"questions":{}}` {
		t.Fatalf("unexpected contents %q", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected no temp files left behind, got %d entries", len(entries))
	}

	if err := store.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if data, _ := store.Load(ctx); data != nil {
		t.Fatalf("expected empty after delete, got %q", data)
	}
}
