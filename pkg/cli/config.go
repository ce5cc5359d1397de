package cli

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the defaults patchfill falls back to when a flag isn't
// given explicitly, loaded from a .env file (if present) via godotenv.
type Config struct {
	PatchSize int
	MaxRetry  int
	Seed      int64
	Repo      string // owner/name used by CheckForUpdates
}

// LoadConfig reads .env (silently ignored if absent, matching
// godotenv.Load's usual CLI usage) and environment variables into a
// Config, applying the package defaults for anything unset.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		PatchSize: 3,
		MaxRetry:  20,
		Seed:      0,
		Repo:      "Fepozopo/patchfill",
	}
	if v := os.Getenv("PATCHFILL_PATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PatchSize = n
		}
	}
	if v := os.Getenv("PATCHFILL_MAX_RETRY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRetry = n
		}
	}
	if v := os.Getenv("PATCHFILL_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("PATCHFILL_REPO"); v != "" {
		cfg.Repo = v
	}
	return cfg
}
