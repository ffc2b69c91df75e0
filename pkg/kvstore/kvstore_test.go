package kvstore

import (
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemory()

	if _, ok := m.Get("missing"); ok {
		t.Fatalf("expected miss")
	}

	if err := m.Set("k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok := m.Get("k"); !ok || v != "v1" {
		t.Fatalf("got %q, %v", v, ok)
	}

	if err := m.Set("k", "v2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := m.Get("k"); v != "v2" {
		t.Fatalf("overwrite failed: %q", v)
	}

	if err := m.Remove("k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := m.Get("k"); ok {
		t.Fatalf("expected miss after remove")
	}

	// Removing a missing key is fine
	if err := m.Remove("k"); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Set("token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := f.Set("products", `[{"id":"p1"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Reopen and expect the data back
	g, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok := g.Get("token"); !ok || v != "abc" {
		t.Fatalf("token not persisted: %q, %v", v, ok)
	}

	if err := g.Remove("token"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	h, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen after remove: %v", err)
	}
	if _, ok := h.Get("token"); ok {
		t.Fatalf("removed key survived reopen")
	}
	if v, _ := h.Get("products"); v != `[{"id":"p1"}]` {
		t.Fatalf("other keys lost: %q", v)
	}
}

func TestFileStoreFreshPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile on fresh path: %v", err)
	}
	if _, ok := f.Get("anything"); ok {
		t.Fatalf("expected empty store")
	}
}
