package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")
	t.Setenv("STORAGE_MODE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_URL_POOLED", "")
	t.Setenv("DATABASE_URL_DIRECT", "")
	t.Setenv("AI_MODE", "")

	cfg := Load()

	if cfg.Env != "local" {
		t.Fatalf("expected env=local, got %q", cfg.Env)
	}
	if cfg.Goals.Calories != 2500 || cfg.Goals.ProteinG != 150 || cfg.Goals.CarbsG != 300 || cfg.Goals.FatsG != 70 {
		t.Fatalf("unexpected default goals: %+v", cfg.Goals)
	}
	if cfg.StatsSeed.Steps != 6540 || cfg.StatsSeed.CaloriesBurned != 450 || cfg.StatsSeed.ActiveMinutes != 35 {
		t.Fatalf("unexpected stats seed: %+v", cfg.StatsSeed)
	}
	if cfg.AIMode != AIModeMock {
		t.Fatalf("expected ai_mode=mock, got %q", cfg.AIMode)
	}
	if got := cfg.EffectiveStorageMode(); got != StorageModeSQLite {
		t.Fatalf("expected auto storage to resolve to sqlite, got %q", got)
	}
}

func TestLoad_AutoStorageUsesPostgresWhenURLSet(t *testing.T) {
	t.Setenv("STORAGE_MODE", "auto")
	t.Setenv("DATABASE_URL", "postgres://localhost/nutrilog")
	t.Setenv("AI_MODE", "mock")

	cfg := Load()
	if got := cfg.EffectiveStorageMode(); got != StorageModePostgres {
		t.Fatalf("expected postgres, got %q", got)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORAGE_MODE", "floppy")
	t.Setenv("AI_MODE", "oracle")
	t.Setenv("GOAL_CALORIES", "-10")
	t.Setenv("GOAL_STEPS", "abc")
	t.Setenv("CHART_SEED", "not-a-number")

	cfg := Load()
	if cfg.StorageMode != StorageModeAuto {
		t.Fatalf("expected fallback to auto, got %q", cfg.StorageMode)
	}
	if cfg.AIMode != AIModeMock {
		t.Fatalf("expected fallback to mock, got %q", cfg.AIMode)
	}
	if cfg.Goals.Calories != 2500 {
		t.Fatalf("expected default calories goal, got %v", cfg.Goals.Calories)
	}
	if cfg.Goals.Steps != 8000 {
		t.Fatalf("expected default steps goal, got %d", cfg.Goals.Steps)
	}
	if cfg.ChartSeed != 0 {
		t.Fatalf("expected random chart seed (0), got %d", cfg.ChartSeed)
	}
}

func TestS3Config_MissingRequired(t *testing.T) {
	c := S3Config{Endpoint: "https://storage.example", Bucket: "b"}
	missing := c.MissingRequired()
	if len(missing) != 3 {
		t.Fatalf("expected 3 missing keys, got %v", missing)
	}
	if c.IsConfigured() {
		t.Fatal("expected partial config to be reported as not configured")
	}
}
