package idgen

import "testing"

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if len(id) != 36 {
			t.Fatalf("New: got length %d, want 36", len(id))
		}
		if seen[id] {
			t.Fatalf("New: duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestNewSession_Prefix(t *testing.T) {
	id := NewSession()
	if len(id) != len("sess_")+36 {
		t.Errorf("NewSession: got length %d", len(id))
	}
	if id[:5] != "sess_" {
		t.Errorf("NewSession: got %q, want sess_ prefix", id[:5])
	}
}
