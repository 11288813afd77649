package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/nutrilog/internal/config"
	"github.com/fdg312/nutrilog/internal/dbmigrate"
	"github.com/fdg312/nutrilog/internal/httpserver"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup && cfg.EffectiveStorageMode() == config.StorageModePostgres {
		target, err := dbmigrate.SelectTarget(cfg, true)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}

		log.Printf("startup migrations: command=up using=%s", target.Source)
		if err := dbmigrate.RunTarget("up", target); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("startup migrations: completed")
	}

	validateProductionConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := httpserver.New(ctx, cfg)
	if err != nil {
		log.Fatalf("FATAL startup: %v", err)
	}
	log.Printf("INFO storage: effective_mode=%s", server.StorageMode())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("FATAL http: %v", err)
		}
	case <-ctx.Done():
		log.Printf("INFO shutdown: signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("WARN shutdown: %v", err)
	}
	log.Printf("INFO shutdown: completed")
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed, only masked indicators ("set" / "not set").
func printStartupBanner(cfg *config.Config) {
	log.Println("========== NutriLog API ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	// ---- Storage ----
	log.Println("---- storage ----")
	log.Printf("  storage_mode     = %s (effective=%s)", cfg.StorageMode, cfg.EffectiveStorageMode())
	switch cfg.EffectiveStorageMode() {
	case config.StorageModeSQLite:
		log.Printf("  sqlite_path      = %s", cfg.SQLitePath)
	case config.StorageModePostgres:
		log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
		log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
		log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
		log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
		if cfg.RunMigrationsOnStartup && cfg.DatabaseURLDirect == "" {
			log.Printf("  migrations_via   = (will fail: DATABASE_URL_DIRECT not set)")
		}
	case config.StorageModeS3:
		level, code, msg := cfg.S3.Diagnostics()
		log.Printf("  %s s3: code=%s %s", level, code, msg)
		log.Printf("  s3: %s", cfg.S3.DiagnosticsSummary())
	}

	// ---- Goals ----
	log.Println("---- goals ----")
	log.Printf("  calories         = %.0f", cfg.Goals.Calories)
	log.Printf("  macros_g         = protein:%.0f carbs:%.0f fats:%.0f", cfg.Goals.ProteinG, cfg.Goals.CarbsG, cfg.Goals.FatsG)
	log.Printf("  steps            = %d", cfg.Goals.Steps)
	log.Printf("  water_glasses    = %d", cfg.Goals.WaterGlasses)
	log.Printf("  chart_seed       = %s", describeSeed(cfg.ChartSeed))

	// ---- AI ----
	log.Println("---- ai ----")
	log.Printf("  ai_mode          = %s", cfg.AIMode)
	switch cfg.AIMode {
	case config.AIModeGemini:
		log.Printf("  gemini_model     = %s", cfg.GeminiModel)
		log.Printf("  gemini_api_key   = %s", setOrNot(cfg.GeminiAPIKey))
	case config.AIModeOpenAI:
		log.Printf("  openai_model     = %s", cfg.OpenAIModel)
		log.Printf("  openai_api_key   = %s", setOrNot(cfg.OpenAIAPIKey))
	}
	log.Printf("  ai_timeout_s     = %d", cfg.AITimeoutSeconds)

	// ---- HTTP ----
	log.Println("---- http ----")
	log.Printf("  cors_origins     = %s", nonEmptyOrDash(strings.Join(cfg.CORSAllowedOrigins, ",")))
	if cfg.RateLimitRPS > 0 {
		log.Printf("  rate_limit       = %d rps (burst %d)", cfg.RateLimitRPS, cfg.RateLimitBurst)
	} else {
		log.Printf("  rate_limit       = disabled")
	}

	log.Println("==================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.StorageMode == config.StorageModeS3 {
		if missing := cfg.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL storage: STORAGE_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if isProd && cfg.StorageMode == config.StorageModeMemory {
		log.Fatalf("FATAL storage: STORAGE_MODE=memory is not allowed in %s (reminders would be lost)", cfg.Env)
	}

	if isProd && cfg.AIMode == config.AIModeMock {
		log.Printf("WARN ai: AI_MODE=mock in %s, estimates are canned", cfg.Env)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}

func describeSeed(seed uint64) string {
	if seed == 0 {
		return "random"
	}
	return "fixed"
}
