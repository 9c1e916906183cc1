package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(ctx, mr.Addr(), "")
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()

	cart, err := s.Load(ctx)
	if err != nil || len(cart) != 0 {
		t.Fatalf("expected empty cart, got %v %v", cart, err)
	}

	if err := s.Save(ctx, sampleCart()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !mr.Exists(DefaultKey) {
		t.Fatalf("expected key %q to be written", DefaultKey)
	}

	cart, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cart.Equal(sampleCart()) {
		t.Fatalf("read-back differs: %+v", cart)
	}
}

func TestRedisStore_Corrupt(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	mr.Set("custom", "[{]")

	s, err := NewRedisStore(ctx, "redis://"+mr.Addr(), "custom")
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()

	if _, err := s.Load(ctx); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisStore(context.Background(), addr, ""); err == nil {
		t.Fatalf("expected ping failure for a closed server")
	}
}
