package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNanoGenerator_NewID(t *testing.T) {
	gen := NewNanoGenerator("plr_")
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		got, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if !strings.HasPrefix(got, "plr_") || len(got) != len("plr_")+playerIDLength {
			t.Fatalf("unexpected id %q", got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id %q", got)
		}
		seen[got] = struct{}{}
	}
}

func TestUUIDGenerator_NewID(t *testing.T) {
	got, err := NewUUIDGenerator().NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected valid uuid, got %q: %v", got, err)
	}
}
