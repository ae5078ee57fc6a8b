package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/alexiusacademia/solarrail/internal/beam"
	"github.com/alexiusacademia/solarrail/internal/span"
)

// Environment variables
const (
	EnvConfigPath = "SOLARRAIL_CONFIG"
	EnvLogLevel   = "SOLARRAIL_LOG_LEVEL"
	EnvAddr       = "SOLARRAIL_ADDR"

	DefaultPath = "solarrail.ini"
)

// Config holds the tool defaults
type Config struct {
	// [optimizer]
	MinSpan float64
	Step    float64
	MaxSpan float64

	// [beam]
	PointsPerSpan int

	// [log]
	LogLevel  string
	LogFormat string

	// [server]
	Addr         string
	Rate         float64 // requests per second per client
	Burst        int
	CacheTTL     time.Duration
	CacheEntries int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MinSpan:       span.DefaultMinSpan,
		Step:          span.DefaultStep,
		MaxSpan:       span.DefaultMaxSpan,
		PointsPerSpan: beam.DefaultPointsPerSpan,
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":8080",
		Rate:          5,
		Burst:         10,
		CacheTTL:      10 * time.Minute,
		CacheEntries:  1024,
	}
}

// SpanOptions returns the optimizer defaults.
func (c Config) SpanOptions() span.Options {
	return span.Options{
		MinSpan:       c.MinSpan,
		Step:          c.Step,
		MaxSpan:       c.MaxSpan,
		PointsPerSpan: c.PointsPerSpan,
	}
}

// Load reads .env (if present), then the INI file at path, then the
// environment overrides. An empty path uses SOLARRAIL_CONFIG or
// solarrail.ini. A missing INI file is treated as empty.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Warn("ignoring unreadable .env file")
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	file, err := ini.LoadSources(ini.LoadOptions{Loose: true}, path)
	if err != nil {
		return cfg, err
	}
	loadCfg(file, &cfg)
	log.WithField("path", path).Debug("configuration loaded")

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	return cfg, nil
}

// Parse reads configuration from INI source data.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	file, err := ini.Load(data)
	if err != nil {
		return cfg, err
	}
	loadCfg(file, &cfg)
	return cfg, nil
}

func loadCfg(file *ini.File, cfg *Config) {
	opt := file.Section("optimizer")
	cfg.MinSpan = opt.Key("min_span").MustFloat64(cfg.MinSpan)
	cfg.Step = opt.Key("step").MustFloat64(cfg.Step)
	cfg.MaxSpan = opt.Key("max_span").MustFloat64(cfg.MaxSpan)

	cfg.PointsPerSpan = file.Section("beam").Key("points_per_span").MustInt(cfg.PointsPerSpan)

	lg := file.Section("log")
	cfg.LogLevel = lg.Key("level").MustString(cfg.LogLevel)
	cfg.LogFormat = lg.Key("format").MustString(cfg.LogFormat)

	srv := file.Section("server")
	cfg.Addr = srv.Key("addr").MustString(cfg.Addr)
	cfg.Rate = srv.Key("rate").MustFloat64(cfg.Rate)
	cfg.Burst = srv.Key("burst").MustInt(cfg.Burst)
	cfg.CacheTTL = srv.Key("cache_ttl").MustDuration(cfg.CacheTTL)
	cfg.CacheEntries = srv.Key("cache_entries").MustInt(cfg.CacheEntries)
}
