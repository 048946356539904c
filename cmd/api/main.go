package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "booking_reviews/internal/adapters/http_server"
	"booking_reviews/internal/adapters/observability"
	redisad "booking_reviews/internal/adapters/redis"
	"booking_reviews/internal/app"
	"booking_reviews/internal/domain"
	"booking_reviews/internal/shared"
	mysqlrepo "booking_reviews/internal/storage/mysql"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (keys as env vars)")
	flag.Parse()

	cfg, err := shared.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	// db: a single connection, batches are serialized by the ingestion service
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	ing := app.NewIngestionService(repo, cache, log.Logger, cfg.PostDateLayout)
	defer func() {
		if err := ing.Close(); err != nil {
			log.Error().Err(err).Msg("close failed")
		}
	}()

	// http
	reg := observability.InitRegistry()
	srv := server.New(log.Logger, 60*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{I: ing, Q: q, IngestRPS: cfg.IngestRPS})
	observability.Serve(cfg.MetricsAddr, reg)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
