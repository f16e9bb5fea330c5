package storage_test

import (
	"testing"

	"livingdead/internal/storage"
)

func open(t *testing.T) *storage.KV {
	t.Helper()
	kv, err := storage.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestSaveLoadDelete(t *testing.T) {
	kv := open(t)

	if err := kv.Save("cart:a", []byte(`{"items":[]}`)); err != nil {
		t.Fatal(err)
	}
	got, err := kv.Load("cart:a")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"items":[]}` {
		t.Fatalf("unexpected value %q", got)
	}

	// overwrite
	if err := kv.Save("cart:a", []byte(`{"items":[1]}`)); err != nil {
		t.Fatal(err)
	}
	got, _ = kv.Load("cart:a")
	if string(got) != `{"items":[1]}` {
		t.Fatalf("overwrite failed, got %q", got)
	}

	if err := kv.Delete("cart:a"); err != nil {
		t.Fatal(err)
	}
	got, err = kv.Load("cart:a")
	if err != nil || got != nil {
		t.Fatalf("deleted key should load as absent, got %q err=%v", got, err)
	}
}

func TestLoadAbsentKey(t *testing.T) {
	kv := open(t)
	got, err := kv.Load("never-written")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("absent key should return nil, got %q", got)
	}
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	kv := open(t)
	if err := kv.Delete("never-written"); err != nil {
		t.Fatalf("delete of absent key should not error: %v", err)
	}
}
