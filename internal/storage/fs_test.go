package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempFS(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestFSWriteAndRead(t *testing.T) {
	s := tempFS(t)
	content := []byte(`{"2025-03-10":[]}`)
	if err := s.WriteRecord(RecordEvents, content); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	got, err := s.ReadRecord(RecordEvents)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestFSReadMissing(t *testing.T) {
	s := tempFS(t)
	_, err := s.ReadRecord(RecordTodos)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestFSOverwrite(t *testing.T) {
	s := tempFS(t)
	_ = s.WriteRecord(RecordCategories, []byte("v1"))
	if err := s.WriteRecord(RecordCategories, []byte("v2")); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	got, _ := s.ReadRecord(RecordCategories)
	if string(got) != "v2" {
		t.Errorf("content = %q, want v2", got)
	}

	// Atomic replacement leaves no temp files behind.
	matches, _ := filepath.Glob(filepath.Join(s.root, ".planner-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestFSInvalidRecordName(t *testing.T) {
	s := tempFS(t)
	for _, name := range []string{"", "../escape", "UPPER", "a/b", "a.b"} {
		if err := s.WriteRecord(name, []byte("x")); err == nil {
			t.Errorf("expected error for name %q", name)
		}
		if _, err := s.ReadRecord(name); err == nil {
			t.Errorf("expected read error for name %q", name)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp(t.TempDir(), "flat-*")
	_ = f.Close()
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
