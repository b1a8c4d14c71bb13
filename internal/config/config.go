package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host          string
	Port          int
	AllowOrigins  []string
	LogLevel      string
	LogFile       string
	MaxUploadMB   int
	DBPath        string
	SeedFile      string
	MetaPath      string
	MinSimilarity float64
	MatchWorkers  int
	RefreshCron   string
}

// Load reads the environment (after an optional .env file) with defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Host:          getenv("HOST", "127.0.0.1"),
		Port:          getint("PORT", 8082),
		AllowOrigins:  splitList(getenv("ALLOW_ORIGINS", "*")),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFile:       getenv("LOG_FILE", "logs/bom-sourcing.log"),
		MaxUploadMB:   getint("MAX_UPLOAD_MB", 32),
		DBPath:        getenv("DB_PATH", "data/cache.db"),
		SeedFile:      getenv("SEED_FILE", "data/sample_parts.csv"),
		MetaPath:      getenv("META_PATH", "data/metadata.json"),
		MinSimilarity: getfloat("MIN_SIMILARITY", 70),
		MatchWorkers:  getint("MATCH_WORKERS", runtime.GOMAXPROCS(0)),
		RefreshCron:   lookup("REFRESH_CRON", "@every 6h"),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// lookup distinguishes an explicitly empty variable from an unset one.
func lookup(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func getint(k string, def int) int {
	if i, err := strconv.Atoi(getenv(k, "")); err == nil {
		return i
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if f, err := strconv.ParseFloat(getenv(k, ""), 64); err == nil {
		return f
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
