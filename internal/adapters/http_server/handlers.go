package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"booking_reviews/internal/domain"
)

// maxIngestBody caps a single ingest request.
const maxIngestBody = 32 << 20

type Ingestor interface {
	IngestAll(ctx context.Context, records []domain.RawReview, hotel domain.HotelInfo) int
}

type Queries interface {
	GetReview(ctx context.Context, hash string) (domain.ReviewView, error)
	ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error)
}

type Handlers struct {
	I         Ingestor
	Q         Queries
	IngestRPS int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type ingestRequest struct {
	Hotel   domain.HotelInfo   `json:"hotel"`
	Reviews []domain.RawReview `json:"reviews"`
}

type ingestResponse struct {
	Inserted int `json:"inserted"`
	Received int `json:"received"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.With(RateLimit(h.IngestRPS)).Post("/v1/ingest", h.ingest)
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Get("/v1/reviews/{hash}", h.getReview)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) ingest(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIngestBody))
	dec.UseNumber() // keep "8.5" style numbers exact for the coercers
	var req ingestRequest
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	if strings.TrimSpace(req.Hotel.Name) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid hotel", "hotel.name is required")
		return
	}

	n := h.I.IngestAll(r.Context(), req.Reviews, req.Hotel)
	zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("hotel", req.Hotel.Name).Int("received", len(req.Reviews)).Int("inserted", n)
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ingestResponse{Inserted: n, Received: len(req.Reviews)}); err != nil {
		log.Error().Err(err).Msg("failed to write ingest response")
	}
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" || len(hash) > 64 {
		writeProblem(w, http.StatusBadRequest, "Invalid hash", "hash must be 1-64 characters")
		return
	}
	rv, err := h.Q.GetReview(r.Context(), hash)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "review not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("hash", hash).Msg("get review failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "review lookup failed")
		return
	}
	writeJSON(w, r, rv)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	out, err := h.Q.ListReviews(r.Context(), domain.ReviewsQuery{Hotel: r.URL.Query().Get("hotel"), Limit: limit})
	if err != nil {
		log.Error().Err(err).Msg("list reviews failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "review listing failed")
		return
	}
	writeJSON(w, r, out)
}
