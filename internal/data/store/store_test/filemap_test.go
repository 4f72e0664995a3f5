package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ank-dev/askmydoc/internal/data/store"
)

func openTestFileMap(t *testing.T) *store.FileMapStore {
	t.Helper()
	s, err := store.OpenFileMapStore(filepath.Join(t.TempDir(), "filemap.db"))
	if err != nil {
		t.Fatalf("OpenFileMapStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFileMapStore_SaveAndGet(t *testing.T) {
	s := openTestFileMap(t)
	ctx := context.Background()

	if err := s.SaveFile(ctx, "id-1", "contract.pdf"); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	name, found := s.GetFile(ctx, "id-1")
	if !found || name != "contract.pdf" {
		t.Errorf("GetFile = (%q, %v)", name, found)
	}

	if _, found := s.GetFile(ctx, "ghost"); found {
		t.Error("expected found=false for unknown file id")
	}
}

func TestFileMapStore_List(t *testing.T) {
	s := openTestFileMap(t)
	ctx := context.Background()

	files := map[string]string{
		"b-id": "second.txt",
		"a-id": "first.pdf",
	}
	for id, name := range files {
		if err := s.SaveFile(ctx, id, name); err != nil {
			t.Fatalf("SaveFile failed: %v", err)
		}
	}

	entries, err := s.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].FileID != "a-id" || entries[1].FileID != "b-id" {
		t.Errorf("entries not sorted by id: %+v", entries)
	}
}

func TestFileMapStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filemap.db")
	ctx := context.Background()

	s, err := store.OpenFileMapStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveFile(ctx, "persist-id", "report.docx"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := store.OpenFileMapStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	name, found := s2.GetFile(ctx, "persist-id")
	if !found || name != "report.docx" {
		t.Errorf("mapping lost across reopen: (%q, %v)", name, found)
	}
}
