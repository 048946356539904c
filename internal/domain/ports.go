package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// ReviewRepository is the persisted state behind ingestion and lookups.
type ReviewRepository interface {
	// Write path
	Begin(ctx context.Context) (ReviewTx, error)

	// Read paths
	GetReviewByHash(ctx context.Context, hash string) (ReviewView, error)
	ListReviews(ctx context.Context, q ReviewsQuery) (ReviewsPage, error)
	CountReviews(ctx context.Context, hotel string) (int, error)

	Close() error
}

// ReviewTx is one per-record unit of work. Exactly one of Commit or Rollback
// ends it.
type ReviewTx interface {
	HashExists(ctx context.Context, hash string) (bool, error)
	Insert(ctx context.Context, id string, r NormalizedReview) error
	Commit() error
	Rollback() error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type ReviewsQuery struct {
	Hotel string // matches biz_name; empty lists all hotels
	Limit int
}

type ReviewsPage struct {
	Items []ReviewView `json:"items"`
	Total int          `json:"total"`
}
