package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, prefix string) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, prefix), mr
}

func TestCacheHelper_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t, "survey:")

	type payload struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}

	if err := helper.Set(ctx, "id:1", payload{ID: 1, Title: "hello"}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "id:1", &got); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != 1 || got.Title != "hello" {
		t.Errorf("unexpected value: %+v", got)
	}

	if err := helper.Delete(ctx, "id:1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := helper.Get(ctx, "id:1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound after delete, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "survey:")

	if err := helper.Set(ctx, "id:1", "x", time.Minute); err != nil {
		t.Errorf("set on nil client must be a no-op, got %v", err)
	}
	var dest string
	if err := helper.Get(ctx, "id:1", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
	if err := helper.Delete(ctx, "id:1"); err != nil {
		t.Errorf("delete on nil client must be a no-op, got %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	helper, mr := newTestCache(t, "survey:")

	for _, key := range []string{"creator:u1:p1", "creator:u1:p2", "creator:u2:p1"} {
		if err := helper.Set(ctx, key, "v", time.Minute); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "creator:u1:*"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	if mr.Exists("survey:creator:u1:p1") || mr.Exists("survey:creator:u1:p2") {
		t.Error("matching keys should be gone")
	}
	if !mr.Exists("survey:creator:u2:p1") {
		t.Error("non-matching key must survive")
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t, "survey:")

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]string{"title": "fetched"}, nil
	}

	var first map[string]string
	if err := helper.CacheOrExecute(ctx, "id:9", &first, time.Minute, fetch); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if calls != 1 || first["title"] != "fetched" {
		t.Fatalf("fetch not executed: calls=%d value=%v", calls, first)
	}

	// The cache write happens asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for {
		var cached map[string]string
		if err := helper.Get(ctx, "id:9", &cached); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("value never showed up in cache")
		}
		time.Sleep(10 * time.Millisecond)
	}

	var second map[string]string
	if err := helper.CacheOrExecute(ctx, "id:9", &second, time.Minute, fetch); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected cache hit, fetch ran %d times", calls)
	}
}

func TestInvalidateSurveyCache(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cm := NewCacheManager(client)

	seed := map[*CacheHelper][]string{
		cm.Survey: {"id:5", "published:5", "creator:u1:page1", "list:all"},
		cm.Stats:  {"survey:5:summary", "creator:u1:totals"},
	}
	for helper, keys := range seed {
		for _, key := range keys {
			if err := helper.Set(ctx, key, "v", time.Minute); err != nil {
				t.Fatalf("seed failed: %v", err)
			}
		}
	}

	InvalidateSurveyCache(ctx, cm, 5, "u1")

	for _, gone := range []string{
		"survey:id:5", "survey:published:5", "survey:creator:u1:page1", "survey:list:all",
		"stats:survey:5:summary", "stats:creator:u1:totals",
	} {
		if mr.Exists(gone) {
			t.Errorf("key %q should have been invalidated", gone)
		}
	}
}

func TestInvalidateResponseCache_LeavesDefinitionAlone(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cm := NewCacheManager(client)

	if err := cm.Survey.Set(ctx, "published:5", "v", time.Minute); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := cm.Stats.Set(ctx, "survey:5:summary", "v", time.Minute); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	InvalidateResponseCache(ctx, cm, 5)

	if mr.Exists("stats:survey:5:summary") {
		t.Error("stats for the survey should be invalidated")
	}
	if !mr.Exists("survey:published:5") {
		t.Error("the published survey definition must stay cached")
	}
}
