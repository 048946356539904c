package app

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"booking_reviews/internal/charset"
	"booking_reviews/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// GetReview looks a stored review up by fingerprint.
func (s *QueryService) GetReview(ctx context.Context, hash string) (domain.ReviewView, error) {
	key := reviewKey(hash)
	var rv domain.ReviewView
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &rv); ok {
			return rv, nil
		}
	}
	rv, err := s.repo.GetReviewByHash(ctx, hash)
	if err != nil {
		return domain.ReviewView{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rv, int(s.cacheTTL.Seconds()))
	}
	return rv, nil
}

// ListReviews returns the newest reviews of a hotel (all hotels when q.Hotel is
// empty) together with the hotel's total.
func (s *QueryService) ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	q.Hotel = hotelKey(q.Hotel)
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}

	// only the page sizes invalidated after ingestion are cached
	cacheable := s.cache != nil && slices.Contains(listLimits, q.Limit)
	key := listKey(q.Hotel, q.Limit)
	var out domain.ReviewsPage
	if cacheable {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	page, err := s.repo.ListReviews(ctx, q)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	total, err := s.CountReviews(ctx, q.Hotel)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	page.Total = total

	// copy slice to avoid aliasing the repo's backing array
	cp := deepCopyReviewsPage(page)

	if cacheable {
		if b, _ := json.Marshal(cp); len(b) < 1_000_000 {
			_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
		}
	}
	return cp, nil
}

func (s *QueryService) CountReviews(ctx context.Context, hotel string) (int, error) {
	hotel = hotelKey(hotel)
	key := countKey(hotel)
	var n int
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &n); ok {
			return n, nil
		}
	}
	n, err := s.repo.CountReviews(ctx, hotel)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, n, int(s.cacheTTL.Seconds()))
	}
	return n, nil
}

// hotelKey is the hotel name as it is stored in biz_name.
func hotelKey(name string) string {
	return deref(charset.Sanitize(name))
}

func deepCopyReviewsPage(in domain.ReviewsPage) domain.ReviewsPage {
	out := domain.ReviewsPage{Total: in.Total}
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.ReviewView, n)
		copy(out.Items, in.Items)
	}
	return out
}
