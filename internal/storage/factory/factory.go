package factory

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/nutrilog/internal/config"
	"github.com/fdg312/nutrilog/internal/storage"
	"github.com/fdg312/nutrilog/internal/storage/memory"
	"github.com/fdg312/nutrilog/internal/storage/postgres"
	s3storage "github.com/fdg312/nutrilog/internal/storage/s3"
	"github.com/fdg312/nutrilog/internal/storage/sqlite"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewKV builds the key-value backend for STORAGE_MODE memory|sqlite|postgres|s3|auto.
// In auto mode a backend that fails to start degrades to memory; a forced
// mode returns the error instead.
func NewKV(ctx context.Context, cfg *appcfg.Config, logger Logger) (storage.KV, string, error) {
	auto := cfg.StorageMode == appcfg.StorageModeAuto
	mode := cfg.EffectiveStorageMode()

	var (
		kv  storage.KV
		err error
	)

	switch mode {
	case appcfg.StorageModeMemory:
		logf(logger, "INFO storage: mode=memory (forced)")
		return memory.New(), appcfg.StorageModeMemory, nil

	case appcfg.StorageModeSQLite:
		kv, err = sqlite.New(ctx, cfg.SQLitePath)
		if err == nil {
			logf(logger, "INFO storage: mode=sqlite path=%s", cfg.SQLitePath)
		}

	case appcfg.StorageModePostgres:
		kv, err = openPostgres(ctx, cfg)
		if err == nil {
			logf(logger, "INFO storage: mode=postgres")
		}

	case appcfg.StorageModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			logf(logger, "FATAL storage.s3: code=s3_config_incomplete missing=%v", missing)
			logf(logger, "FATAL storage.s3: %s", cfg.S3.DiagnosticsSummary())
			return nil, "", fmt.Errorf("STORAGE_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}
		logf(logger, "INFO storage.s3: code=s3_ready %s", cfg.S3.DiagnosticsSummary())
		kv, err = s3storage.New(ctx, cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Prefix, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey)
		if err == nil {
			logf(logger, "INFO storage: mode=s3 bucket=%s prefix=%s", cfg.S3.Bucket, cfg.S3.Prefix)
		}

	default:
		return nil, "", fmt.Errorf("unsupported storage mode: %s", mode)
	}

	if err != nil {
		if !auto {
			logf(logger, "FATAL storage.%s: init_failed=%v", mode, err)
			return nil, "", fmt.Errorf("STORAGE_MODE=%s init failed: %w", mode, err)
		}
		logf(logger, "WARN storage.%s: init_failed=%q, fallback=memory", mode, err.Error())
		return memory.New(), appcfg.StorageModeMemory, nil
	}

	return kv, mode, nil
}

func openPostgres(ctx context.Context, cfg *appcfg.Config) (storage.KV, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("no database URL configured")
	}
	return postgres.New(ctx, cfg.DatabaseURL)
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
