package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := OpenRedisStore(context.Background(), RedisOptions{Addr: mr.Addr(), Prefix: "test"})
	if err != nil {
		t.Fatalf("OpenRedisStore failed: %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)

	if !mr.Exists("test:records") {
		t.Error("expected insertion index to use the configured prefix")
	}
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		t.Fatal(err)
	}
	addr := mr.Addr()
	mr.Close()

	if _, err := OpenRedisStore(context.Background(), RedisOptions{Addr: addr}); err == nil {
		t.Fatal("expected error connecting to a stopped server")
	}
}

func TestRedisStore_DeleteAfterRenameClearsIndexes(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := OpenRedisStore(ctx, RedisOptions{Addr: mr.Addr(), Prefix: "test"})
	if err != nil {
		t.Fatalf("OpenRedisStore failed: %v", err)
	}
	defer s.Close()

	saved, err := s.Save(ctx, &Record{Name: "before", Year: 2001})
	if err != nil {
		t.Fatal(err)
	}
	saved.Name = "after"
	saved.Year = 2002
	if _, err := s.Save(ctx, saved); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteByID(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	for _, key := range []string{
		"test:record:" + saved.ID,
		"test:records",
		"test:name:before",
		"test:name:after",
		"test:year:2001",
		"test:year:2002",
	} {
		if mr.Exists(key) {
			t.Errorf("expected %s to be gone after delete", key)
		}
	}
	if err := s.DeleteByID(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}
