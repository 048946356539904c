package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"booking_reviews/internal/charset"
	"booking_reviews/internal/domain"
)

const dateLayout = "2006-01-02"

// valText binds a text column. The connection charset is latin1, so values go
// over the wire as Windows-1252 bytes rather than UTF-8.
func valText(p *string) any {
	if p == nil {
		return nil
	}
	return charset.Encode(*p)
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valDate(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.Format(dateLayout)
}
func valBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) Begin(ctx context.Context) (domain.ReviewTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &reviewTx{tx: tx}, nil
}

type reviewTx struct{ tx *sql.Tx }

func (t *reviewTx) HashExists(ctx context.Context, hash string) (bool, error) {
	var n int
	if err := t.tx.QueryRowContext(ctx, countByHashSQL, hash).Scan(&n); err != nil {
		return false, fmt.Errorf("count by hash: %w", err)
	}
	return n > 0, nil
}

func (t *reviewTx) Insert(ctx context.Context, id string, rv domain.NormalizedReview) error {
	_, err := t.tx.ExecContext(ctx, insertReviewSQL,
		id,
		valText(rv.BizName),
		valText(rv.BizCity),
		valText(rv.BizCountry),
		valText(rv.Username),
		valText(rv.UserCountry),
		valText(rv.RoomView),
		valInt(rv.StayDuration),
		valText(rv.StayType),
		valDate(rv.ReviewPostDate),
		valText(rv.ReviewTitle),
		valInt(rv.Rating),
		valText(rv.OriginalLang),
		valText(rv.ReviewTextLiked),
		valText(rv.ReviewTextDisliked),
		valBlob(rv.FullReview),
		valBlob(rv.EnFullReview),
		rv.FoundHelpful,
		rv.FoundUnhelpful,
		valBlob(rv.OwnerRespText),
		rv.Hash,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (t *reviewTx) Commit() error   { return t.tx.Commit() }
func (t *reviewTx) Rollback() error { return t.tx.Rollback() }

// -----------------------------------------------------------------------------
// READS
// -----------------------------------------------------------------------------

func (r *Repo) GetReviewByHash(ctx context.Context, hash string) (domain.ReviewView, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewByHashSQL, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReviewView{}, domain.ErrNotFound
		}
		return domain.ReviewView{}, err
	}
	return rv, nil
}

func (r *Repo) ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if q.Hotel == "" {
		rows, err = r.db.QueryContext(ctx, listReviewsSQL, q.Limit)
	} else {
		rows, err = r.db.QueryContext(ctx, listHotelReviewsSQL, valText(&q.Hotel), q.Limit)
	}
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	var out []domain.ReviewView
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return domain.ReviewsPage{}, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: out}, nil
}

func (r *Repo) CountReviews(ctx context.Context, hotel string) (int, error) {
	var row *sql.Row
	if hotel == "" {
		row = r.db.QueryRowContext(ctx, countReviewsSQL)
	} else {
		row = r.db.QueryRowContext(ctx, countHotelReviewsSQL, valText(&hotel))
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(s rowScanner) (domain.ReviewView, error) {
	var rv domain.ReviewView
	var (
		bizName, bizCity, bizCountry []byte
		username, userCountry        []byte
		roomView, stayType           []byte
		title, lang                  []byte
		liked, disliked              []byte
		fullReview, enFull, owner    []byte
		stayDuration, rating         sql.NullInt64
		helpful, unhelpful           sql.NullInt64
		postDate                     any
	)
	if err := s.Scan(
		&rv.ID,
		&bizName, &bizCity, &bizCountry,
		&username, &userCountry, &roomView, &stayDuration,
		&stayType, &postDate, &title, &rating,
		&lang, &liked, &disliked,
		&fullReview, &enFull, &helpful,
		&unhelpful, &owner, &rv.Hash,
	); err != nil {
		return domain.ReviewView{}, err
	}

	rv.BizName = decodeText(bizName)
	rv.BizCity = decodeText(bizCity)
	rv.BizCountry = decodeText(bizCountry)
	rv.Username = decodeText(username)
	rv.UserCountry = decodeText(userCountry)
	rv.RoomView = decodeText(roomView)
	rv.StayType = decodeText(stayType)
	rv.ReviewTitle = decodeText(title)
	rv.OriginalLang = decodeText(lang)
	rv.ReviewTextLiked = decodeText(liked)
	rv.ReviewTextDisliked = decodeText(disliked)
	rv.EnFullReview = decodeText(enFull)
	rv.OwnerRespText = decodeText(owner)

	rv.StayDuration = nullInt(stayDuration)
	rv.Rating = nullInt(rating)
	rv.FoundHelpful = int(helpful.Int64) // NULL reads as 0
	rv.FoundUnhelpful = int(unhelpful.Int64)
	rv.ReviewPostDate = parseDate(postDate)

	if len(fullReview) > 0 {
		var b domain.FullReviewBundle
		if err := json.Unmarshal([]byte(charset.Decode(fullReview)), &b); err == nil {
			rv.FullReview = &b
		}
	}
	return rv, nil
}

func decodeText(b []byte) *string {
	if b == nil {
		return nil
	}
	s := charset.Decode(b)
	return &s
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	x := int(n.Int64)
	return &x
}

// parseDate accepts what the drivers hand back for a DATE column: time.Time
// with parseTime=true, otherwise "2006-01-02" as bytes or string.
func parseDate(v any) *time.Time {
	var s string
	switch x := v.(type) {
	case time.Time:
		d := time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	case []byte:
		s = string(x)
	case string:
		s = x
	default:
		return nil
	}
	if len(s) < len(dateLayout) {
		return nil
	}
	d, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return nil
	}
	return &d
}
