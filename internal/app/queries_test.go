package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking_reviews/internal/app"
	"booking_reviews/internal/domain"
)

func seed(repo *fakeRepo, id, hotel, user, hash string) {
	repo.rows[hash] = storedRow{id: id, rv: domain.NormalizedReview{
		BizName:  ptr(hotel),
		Username: ptr(user),
		Hash:     hash,
	}}
	repo.order = append(repo.order, hash)
}

func TestGetReview_CacheMissThenHit(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "id-1", "Hotel Lux", "Ana", "abc123def4567")
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	rv, err := q.GetReview(context.Background(), "abc123def4567")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rv.ID != "id-1" || deref(rv.Username) != "Ana" {
		t.Fatalf("unexpected review: %+v", rv)
	}

	// Mutate repo to ensure second read indeed comes from cache
	delete(repo.rows, "abc123def4567")

	rv2, err := q.GetReview(context.Background(), "abc123def4567")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if deref(rv2.Username) != "Ana" {
		t.Fatalf("expected cached username, got %q", deref(rv2.Username))
	}
}

func TestGetReview_NotFound(t *testing.T) {
	q := app.NewQueryService(newFakeRepo(), nil, time.Minute)
	if _, err := q.GetReview(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListReviews_FiltersByHotelAndCaches(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "id-1", "Hotel Lux", "Ana", "h1")
	seed(repo, "id-2", "Hotel Lux", "Bob", "h2")
	seed(repo, "id-3", "Other", "Cy", "h3")
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	// hotel names are matched in their stored (sanitized) form
	out, err := q.ListReviews(context.Background(), domain.ReviewsQuery{Hotel: "Hotel Lux 🏨"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out.Items) != 2 || out.Total != 2 {
		t.Fatalf("unexpected page: %+v", out)
	}
	reads := repo.reads

	if _, err := q.ListReviews(context.Background(), domain.ReviewsQuery{Hotel: "Hotel Lux"}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if repo.reads != reads {
		t.Fatalf("second list should be served from cache")
	}

	all, _ := q.ListReviews(context.Background(), domain.ReviewsQuery{Limit: 1})
	if len(all.Items) != 1 || all.Total != 3 {
		t.Fatalf("unexpected all-hotels page: %+v", all)
	}
}
