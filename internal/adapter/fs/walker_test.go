package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWalkIncludesModelFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "office.json"), `{}`)
	mustWrite(t, filepath.Join(dir, "models", "tower.json"), `{}`)
	mustWrite(t, filepath.Join(dir, "readme.md"), `#`)

	w := NewWalker(nil, nil)
	files, err := w.Walk(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(files), files)
	}
	for _, f := range files {
		if filepath.Ext(f.Path) != ".json" {
			t.Errorf("unexpected file %s", f.Path)
		}
		if f.Size == 0 {
			t.Errorf("expected non-zero size for %s", f.Path)
		}
	}
}

func TestWalkExcludes(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "keep.json"), `{}`)
	mustWrite(t, filepath.Join(dir, "node_modules", "skip.json"), `{}`)

	w := NewWalker([]string{"**/*.json"}, []string{"**/node_modules/**"})
	files, err := w.Walk(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if filepath.Base(files[0].Path) != "keep.json" {
		t.Errorf("expected keep.json, got %s", files[0].Path)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
