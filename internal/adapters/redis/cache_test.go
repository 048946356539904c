package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "booking_reviews/internal/adapters/redis"
	"booking_reviews/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var miss domain.ReviewView
	if ok, err := c.Get(ctx, "review:abc", &miss); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	title := "Great stay"
	in := domain.ReviewView{ID: "id-1", Hash: "abc", ReviewTitle: &title, FoundHelpful: 2}
	if err := c.Set(ctx, "review:abc", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("booking_reviews:review:abc") {
		t.Fatalf("key not namespaced: %v", mr.Keys())
	}

	var out domain.ReviewView
	ok, err := c.Get(ctx, "review:abc", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.ID != "id-1" || out.ReviewTitle == nil || *out.ReviewTitle != title || out.FoundHelpful != 2 {
		t.Fatalf("unexpected cached value: %+v", out)
	}

	if err := c.Del(ctx, "review:abc"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "review:abc", &out); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "reviews_count:Hotel Lux", 7, 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var n int
	if ok, _ := c.Get(ctx, "reviews_count:Hotel Lux", &n); ok {
		t.Fatalf("expected expiry after TTL")
	}
}
