package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"booking_reviews/internal/adapters/observability"
	redisad "booking_reviews/internal/adapters/redis"
	"booking_reviews/internal/app"
	"booking_reviews/internal/domain"
	"booking_reviews/internal/shared"
	mysqlrepo "booking_reviews/internal/storage/mysql"
)

var (
	configPath string
	dbDSN      string
	hotelCity  string
	inputPath  string
)

var rootCmd = &cobra.Command{
	Use:   "ingestor <hotel_name> <country>",
	Short: "Load scraped hotel reviews into the review store",
	Long: "ingestor reads scraped reviews (a JSON array or one JSON object per line) " +
		"and stores each one at most once, keyed by its fingerprint.",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML config file (keys as env vars)")
	rootCmd.Flags().StringVar(&dbDSN, "db-dsn", "", "override MYSQL_DSN")
	rootCmd.Flags().StringVar(&hotelCity, "hotel-city", "", "hotel city for the stored rows (default from HOTEL_CITY, else Unknown)")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "scraped reviews file, - for stdin")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := shared.Load(configPath)
	if err != nil {
		return err
	}
	if dbDSN != "" {
		cfg.MySQLDSN = dbDSN
	}
	if hotelCity != "" {
		cfg.HotelCity = hotelCity
	}

	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	records, err := readInput(inputPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	hotel := domain.HotelInfo{Name: args[0], City: cfg.HotelCity, Country: args[1]}
	log.Info().
		Str("hotel", hotel.Name).
		Str("city", hotel.City).
		Str("country", hotel.Country).
		Int("reviews", len(records)).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	// the pipeline owns a single connection for the whole run
	db.SetMaxOpenConns(1)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	ing := app.NewIngestionService(mysqlrepo.New(db), cache, log.Logger, cfg.PostDateLayout)
	defer func() {
		if err := ing.Close(); err != nil {
			log.Error().Err(err).Msg("close failed")
		}
	}()

	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	log.Info().Msg("db ping ok")

	n := ing.IngestAll(cmd.Context(), records, hotel)
	fmt.Fprintf(cmd.OutOrStdout(), "Successfully saved %d reviews to database\n", n)
	return nil
}
