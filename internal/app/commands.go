package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"booking_reviews/internal/adapters/observability"
	"booking_reviews/internal/domain"
)

// progressEvery is the success cadence of the batch progress log.
const progressEvery = 10

// IngestionService writes reviews at most once per fingerprint. Each record is
// its own transaction; a failure only loses that record.
type IngestionService struct {
	repo      domain.ReviewRepository
	cache     domain.Cache
	assembler *Assembler
	log       zerolog.Logger
	newID     func() string

	// one batch at a time owns the storage connection
	mu sync.Mutex
}

func NewIngestionService(r domain.ReviewRepository, cache domain.Cache, l zerolog.Logger, dateLayout string) *IngestionService {
	return &IngestionService{
		repo:      r,
		cache:     cache,
		assembler: NewAssembler(l, dateLayout),
		log:       l,
		newID:     uuid.NewString,
	}
}

// IngestAll assembles and ingests every record in order and returns how many
// were inserted. Duplicates and failures are logged and skipped.
func (s *IngestionService) IngestAll(ctx context.Context, records []domain.RawReview, hotel domain.HotelInfo) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(records)
	observability.ObserveBatch(total)
	inserted := 0
	for _, r := range records {
		if !s.Ingest(ctx, s.assembler.Assemble(r, hotel)) {
			continue
		}
		inserted++
		if inserted%progressEvery == 0 {
			s.log.Info().Int("inserted", inserted).Int("total", total).Msg("ingest progress")
		}
	}

	if inserted > 0 && s.cache != nil {
		s.invalidateHotel(ctx, hotel.Name)
	}
	s.log.Info().
		Str("hotel", hotel.Name).
		Int("inserted", inserted).
		Int("total", total).
		Msg("batch ingested")
	return inserted
}

// Ingest runs one record through check, insert and commit. It returns true only
// when a new row was committed.
func (s *IngestionService) Ingest(ctx context.Context, rv domain.NormalizedReview) bool {
	start := time.Now()
	l := s.log.With().Str("hash", rv.Hash).Logger()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		l.Error().Err(err).Str("stage", "begin").Msg("error inserting review")
		observability.ObserveIngest(observability.OutcomeFailed, time.Since(start))
		return false
	}

	exists, err := tx.HashExists(ctx, rv.Hash)
	if err != nil {
		s.abort(tx, l, "check", err, start)
		return false
	}
	if exists {
		if err := tx.Rollback(); err != nil {
			l.Debug().Err(err).Msg("rollback after duplicate check failed")
		}
		l.Info().Msg("duplicate review found, skipping")
		observability.ObserveIngest(observability.OutcomeDuplicate, time.Since(start))
		return false
	}

	id := s.newID()
	l.Debug().
		Str("id", id).
		Str("biz_name", deref(rv.BizName)).
		Str("username", deref(rv.Username)).
		Str("review_title", deref(rv.ReviewTitle)).
		Msg("inserting review")

	if err := tx.Insert(ctx, id, rv); err != nil {
		s.abort(tx, l, "insert", err, start)
		return false
	}
	if err := tx.Commit(); err != nil {
		s.abort(tx, l, "commit", err, start)
		return false
	}
	observability.ObserveIngest(observability.OutcomeInserted, time.Since(start))
	return true
}

// Close releases the storage connection.
func (s *IngestionService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Close(); err != nil {
		return fmt.Errorf("close review store: %w", err)
	}
	return nil
}

func (s *IngestionService) abort(tx domain.ReviewTx, l zerolog.Logger, stage string, err error, start time.Time) {
	l.Error().Err(err).Str("stage", stage).Str("error_type", fmt.Sprintf("%T", err)).Msg("error inserting review")
	if rerr := tx.Rollback(); rerr != nil {
		l.Debug().Err(rerr).Str("stage", stage).Msg("rollback failed")
	}
	observability.ObserveIngest(observability.OutcomeFailed, time.Since(start))
}

// invalidate the hotel's cached lists and counts after new rows landed
func (s *IngestionService) invalidateHotel(ctx context.Context, hotel string) {
	key := hotelKey(hotel)
	for _, k := range []string{key, ""} { // per-hotel and all-hotels views
		_ = s.cache.Del(ctx, countKey(k))
		for _, lim := range listLimits {
			_ = s.cache.Del(ctx, listKey(k, lim))
		}
	}
}

// listLimits are the page sizes the API serves and caches.
var listLimits = []int{defaultListLimit, 100, 200}

func listKey(hotel string, limit int) string { return fmt.Sprintf("reviews:%s:%d", hotel, limit) }
func countKey(hotel string) string           { return fmt.Sprintf("reviews_count:%s", hotel) }
func reviewKey(hash string) string           { return "review:" + strings.ToLower(hash) }
