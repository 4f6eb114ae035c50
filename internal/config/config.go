// Package config loads process-wide configuration for the bomb-party
// server from the environment, per the ambient-stack expectation every
// package in this repo carries even where spec.md itself stays silent
// on config loading. Grounded on the other pack repos that call
// godotenv.Load() at startup (johnlacomba-Game-SpaceTradingSim's
// cmd/server/main.go); the teacher itself has no config loader to
// generalize from, since it hard-codes its listen address and DB path.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"bombparty/internal/dictionary"
)

// Config is the full set of process-wide settings read once at startup.
type Config struct {
	ListenAddr string

	DictionaryPath string // empty means fall back to the built-in word list
	DictionaryMode dictionary.Mode

	ResultDBPath string

	CleanupInterval    time.Duration
	CleanupMaxEmptyAge time.Duration
}

// Load reads .env (if present, via godotenv) then the process
// environment, applying defaults for anything unset. godotenv.Load
// failing (no .env file) is not itself an error; matching the other
// pack repos, it is ignored.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:         getEnv("BOMBPARTY_LISTEN_ADDR", ":8080"),
		DictionaryPath:     getEnv("BOMBPARTY_DICTIONARY_PATH", ""),
		ResultDBPath:       getEnv("BOMBPARTY_RESULT_DB", "bombparty_results.sqlite3"),
		CleanupInterval:    getDuration("BOMBPARTY_CLEANUP_INTERVAL", 5*time.Minute),
		CleanupMaxEmptyAge: getDuration("BOMBPARTY_CLEANUP_MAX_EMPTY_AGE", 30*time.Minute),
	}
	if cfg.DictionaryPath == "" {
		cfg.DictionaryMode = dictionary.ModeFallback
	} else {
		cfg.DictionaryMode = dictionary.ModeFile
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return fallback
}
