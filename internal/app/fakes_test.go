package app_test

import (
	"context"
	"errors"
	"sort"

	"booking_reviews/internal/domain"
)

var errTxDone = errors.New("tx already done")

// ---- in-memory review store ----

type storedRow struct {
	id string
	rv domain.NormalizedReview
}

type fakeRepo struct {
	rows       map[string]storedRow // by hash
	order      []string
	failBegin  error
	failCheck  error
	failInsert map[string]error // by hash
	failCommit error
	rollbacks  int
	closed     bool
	reads      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]storedRow{}, failInsert: map[string]error{}}
}

func (f *fakeRepo) Begin(ctx context.Context) (domain.ReviewTx, error) {
	if f.failBegin != nil {
		return nil, f.failBegin
	}
	return &fakeTx{repo: f}, nil
}

func (f *fakeRepo) GetReviewByHash(ctx context.Context, hash string) (domain.ReviewView, error) {
	f.reads++
	row, ok := f.rows[hash]
	if !ok {
		return domain.ReviewView{}, domain.ErrNotFound
	}
	return view(row), nil
}

func (f *fakeRepo) ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	f.reads++
	var out domain.ReviewsPage
	for _, h := range f.order {
		row := f.rows[h]
		if q.Hotel != "" && deref(row.rv.BizName) != q.Hotel {
			continue
		}
		out.Items = append(out.Items, view(row))
	}
	sort.SliceStable(out.Items, func(i, j int) bool { return out.Items[i].ID < out.Items[j].ID })
	if len(out.Items) > q.Limit {
		out.Items = out.Items[:q.Limit]
	}
	return out, nil
}

func (f *fakeRepo) CountReviews(ctx context.Context, hotel string) (int, error) {
	f.reads++
	n := 0
	for _, row := range f.rows {
		if hotel == "" || deref(row.rv.BizName) == hotel {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Close() error {
	f.closed = true
	return nil
}

func view(row storedRow) domain.ReviewView {
	return domain.ReviewView{
		ID:          row.id,
		BizName:     row.rv.BizName,
		Username:    row.rv.Username,
		ReviewTitle: row.rv.ReviewTitle,
		Rating:      row.rv.Rating,
		Hash:        row.rv.Hash,
	}
}

type fakeTx struct {
	repo   *fakeRepo
	staged []storedRow
	done   bool
}

func (t *fakeTx) HashExists(ctx context.Context, hash string) (bool, error) {
	if t.repo.failCheck != nil {
		return false, t.repo.failCheck
	}
	_, ok := t.repo.rows[hash]
	return ok, nil
}

func (t *fakeTx) Insert(ctx context.Context, id string, rv domain.NormalizedReview) error {
	if err := t.repo.failInsert[rv.Hash]; err != nil {
		return err
	}
	t.staged = append(t.staged, storedRow{id: id, rv: rv})
	return nil
}

func (t *fakeTx) Commit() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	if t.repo.failCommit != nil {
		return t.repo.failCommit
	}
	for _, row := range t.staged {
		t.repo.rows[row.rv.Hash] = row
		t.repo.order = append(t.repo.order, row.rv.Hash)
	}
	return nil
}

func (t *fakeTx) Rollback() error {
	t.repo.rollbacks++
	t.staged = nil
	if t.done {
		return errTxDone
	}
	t.done = true
	return nil
}

// ---- cache ----

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.ReviewView:
		*d = v.(domain.ReviewView)
	case *domain.ReviewsPage:
		*d = v.(domain.ReviewsPage)
	case *int:
		*d = v.(int)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
