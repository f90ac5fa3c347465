package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(filepath.Join(t.TempDir(), "photos"))
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempStore(t)
	content := []byte("\x89PNG fake")
	if err := s.Write("ada.png", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("ada.png")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteOverwrites(t *testing.T) {
	s := tempStore(t)
	_ = s.Write("a.png", []byte("v1"))
	if err := s.Write("a.png", []byte("v2")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("a.png")
	if string(got) != "v2" {
		t.Errorf("content = %q", got)
	}
	entries, _ := os.ReadDir(s.root)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestDelete(t *testing.T) {
	s := tempStore(t)
	_ = s.Write("del.png", []byte("bye"))
	if err := s.Delete("del.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.png"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Read after delete err = %v", err)
	}
}

func TestRejectsNestedAndTraversal(t *testing.T) {
	s := tempStore(t)
	for _, name := range []string{"", "../escape.png", "a/b.png", `a\b.png`, ".."} {
		if err := s.Write(name, []byte("x")); err == nil {
			t.Errorf("Write(%q) should fail", name)
		}
	}
}
