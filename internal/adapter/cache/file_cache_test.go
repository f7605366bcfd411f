package cache

import (
	"bytes"
	"path/filepath"
	"testing"
)

func openCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCachePutGet(t *testing.T) {
	c := openCache(t)

	data := []byte("serialized embeddings")
	if err := c.Put("model.json:1234", data); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := c.Get("model.json:1234")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !bytes.Equal(got, data) {
		t.Errorf("expected %q, got %q", data, got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := openCache(t)

	_, ok, err := c.Get("model.json:1234")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("expected cache miss")
	}
}

func TestCacheFingerprintSensitivity(t *testing.T) {
	c := openCache(t)

	if err := c.Put("model.json:1234", []byte("old")); err != nil {
		t.Fatal(err)
	}

	// A changed file size means a different fingerprint and a miss.
	_, ok, err := c.Get("model.json:5678")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected miss for different fingerprint")
	}
}

func TestCacheOverwrite(t *testing.T) {
	c := openCache(t)

	if err := c.Put("fp", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("fp", []byte("v2")); err != nil {
		t.Fatal(err)
	}

	got, ok, _ := c.Get("fp")
	if !ok || string(got) != "v2" {
		t.Errorf("expected v2, got %q (hit=%v)", got, ok)
	}
}

func TestCacheDelete(t *testing.T) {
	c := openCache(t)

	if err := c.Put("fp", []byte("data")); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete("fp"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, ok, _ := c.Get("fp")
	if ok {
		t.Error("expected miss after delete")
	}

	// Deleting a missing entry is fine.
	if err := c.Delete("never-there"); err != nil {
		t.Errorf("delete of missing entry failed: %v", err)
	}
}
