package memory

import (
	"context"
	"testing"
)

func TestPutIfAbsentThenGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	wrote, err := s.PutIfAbsent(ctx, []byte("k"), []byte("v1"))
	if err != nil {
		t.Fatalf("PutIfAbsent: %v", err)
	}
	if !wrote {
		t.Fatal("expected first PutIfAbsent to report a write")
	}

	wrote, err = s.PutIfAbsent(ctx, []byte("k"), []byte("v1"))
	if err != nil {
		t.Fatalf("PutIfAbsent (duplicate): %v", err)
	}
	if wrote {
		t.Fatal("expected a duplicate PutIfAbsent to report no write")
	}

	got, err := s.Get(ctx, []byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v1" {
		t.Fatalf("Get: got %q, want %q", got, "v1")
	}
}

func TestGetMissingKeyReturnsNil(t *testing.T) {
	s := New()
	got, err := s.Get(context.Background(), []byte("missing"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a missing key, got %x", got)
	}
}

func TestCloseRejectsFurtherUse(t *testing.T) {
	s := New()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := s.Get(context.Background(), []byte("k")); err == nil {
		t.Fatal("expected Get after Close to fail")
	}
}
