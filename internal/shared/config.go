package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	PostDateLayout string
	IngestRPS      int
	HotelCity      string
}

// Load reads configuration from the environment, falling back to the YAML file
// at path (if any) and then to defaults. Keys are the same in both places:
//
//	MYSQL_DSN: "user:pass@tcp(db:3306)/reviews?charset=latin1&parseTime=true"
//	HOTEL_CITY: Lisboa
func Load(path string) (Config, error) {
	file := map[string]string{}
	if path != "" {
		var err error
		if file, err = readFile(path); err != nil {
			return Config{}, err
		}
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		if v := file[k]; v != "" {
			return v
		}
		return def
	}
	atoi := func(k string, def int) int {
		if n, err := strconv.Atoi(get(k, "")); err == nil {
			return n
		}
		return def
	}

	c := Config{
		AppEnv:         get("APP_ENV", "prod"),
		HTTPAddr:       get("HTTP_ADDR", ":8080"),
		MetricsAddr:    get("METRICS_ADDR", ""),
		MySQLDSN:       get("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=latin1&loc=UTC"),
		RedisAddr:      get("REDIS_ADDR", ""),
		RedisPass:      get("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		PostDateLayout: get("POST_DATE_LAYOUT", "1-2-2006 15:04:05"),
		IngestRPS:      atoi("INGEST_RPS", 5),
		HotelCity:      get("HOTEL_CITY", "Unknown"),
	}
	if c.RedisAddr == "" {
		log.Debug().Msg("REDIS_ADDR is empty; read cache disabled")
	}
	return c, nil
}

func readFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}
