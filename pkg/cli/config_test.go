package cli

import (
	"os"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("PATCHFILL_PATCH_SIZE")
	os.Unsetenv("PATCHFILL_MAX_RETRY")
	os.Unsetenv("PATCHFILL_SEED")
	os.Unsetenv("PATCHFILL_REPO")
	cfg := LoadConfig()
	if cfg.PatchSize != 3 || cfg.MaxRetry != 20 || cfg.Seed != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Repo != "Fepozopo/patchfill" {
		t.Fatalf("unexpected default repo: %s", cfg.Repo)
	}
}

func TestLoadConfigReadsEnvOverrides(t *testing.T) {
	os.Setenv("PATCHFILL_PATCH_SIZE", "7")
	os.Setenv("PATCHFILL_MAX_RETRY", "40")
	os.Setenv("PATCHFILL_SEED", "12345")
	defer func() {
		os.Unsetenv("PATCHFILL_PATCH_SIZE")
		os.Unsetenv("PATCHFILL_MAX_RETRY")
		os.Unsetenv("PATCHFILL_SEED")
	}()
	cfg := LoadConfig()
	if cfg.PatchSize != 7 || cfg.MaxRetry != 40 || cfg.Seed != 12345 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}
