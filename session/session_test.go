package session

import (
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// storeOps exercises the Store contract against any implementation.
func storeOps(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("Get missing = ok=%v err=%v", ok, err)
	}

	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, _ := s.Get("k"); !ok || v != "v1" {
		t.Fatalf("Get = %q ok=%v", v, ok)
	}

	// Overwrite.
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if v, _, _ := s.Get("k"); v != "v2" {
		t.Fatalf("Get after overwrite = %q", v)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Fatal("key survived Delete")
	}

	// Deleting an absent key is a no-op.
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}

	s.Set("a", "1")
	s.Set("b", "2")
	if err := s.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, ok, _ := s.Get("a"); ok {
		t.Fatal("key survived End")
	}
}

func TestMemoryStore(t *testing.T) {
	storeOps(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	storeOps(t, OpenMemory(t))
}

func TestSQLiteReloadKeepsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "sessions.db")

	s1, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id := s1.SessionID()
	if id == "" {
		t.Fatal("no generated session id")
	}
	if err := s1.Set("dismissed", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s1.Close()

	// Same session id: a page reload sees the same keys.
	s2, err := Open(path, id)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if v, ok, _ := s2.Get("dismissed"); !ok || v != "1" {
		t.Fatalf("reload lost key: %q ok=%v", v, ok)
	}

	// A different session id sees nothing.
	s3, err := Open(path, "sess_other")
	if err != nil {
		t.Fatalf("open other: %v", err)
	}
	defer s3.Close()
	if _, ok, _ := s3.Get("dismissed"); ok {
		t.Fatal("key leaked across sessions")
	}
}

func TestSQLiteEndScopedToSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	s1, err := Open(path, "sess_a")
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer s1.Close()
	s2, err := Open(path, "sess_b")
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer s2.Close()

	s1.Set("k", "a")
	s2.Set("k", "b")

	if err := s1.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, ok, _ := s1.Get("k"); ok {
		t.Fatal("ended session kept key")
	}
	if v, ok, _ := s2.Get("k"); !ok || v != "b" {
		t.Fatal("End crossed session boundary")
	}
}
