package factory

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"strings"
	"testing"

	appcfg "github.com/fdg312/nutrilog/internal/config"
)

func TestNewKVMemoryForced(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	kv, mode, err := NewKV(context.Background(), &appcfg.Config{StorageMode: appcfg.StorageModeMemory}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer kv.Close()

	if mode != appcfg.StorageModeMemory {
		t.Fatalf("expected mode=memory, got %s", mode)
	}
	if !strings.Contains(buf.String(), "mode=memory (forced)") {
		t.Fatalf("expected memory mode log, got: %s", buf.String())
	}
}

func TestNewKVAutoWithoutDatabaseURLUsesSQLite(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	cfg := &appcfg.Config{
		StorageMode: appcfg.StorageModeAuto,
		SQLitePath:  filepath.Join(t.TempDir(), "nutrilog.db"),
	}
	kv, mode, err := NewKV(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer kv.Close()

	if mode != appcfg.StorageModeSQLite {
		t.Fatalf("expected mode=sqlite, got %s", mode)
	}
}

func TestNewKVS3ForcedIncompleteConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	_, _, err := NewKV(context.Background(), &appcfg.Config{
		StorageMode: appcfg.StorageModeS3,
		S3:          appcfg.S3Config{Endpoint: "https://storage.yandexcloud.net"},
	}, logger)
	if err == nil {
		t.Fatal("expected error for incomplete S3 config")
	}
	if !strings.Contains(buf.String(), "code=s3_config_incomplete") {
		t.Fatalf("expected s3_config_incomplete log, got: %s", buf.String())
	}
}

func TestNewKVPostgresForcedWithoutURLFails(t *testing.T) {
	_, _, err := NewKV(context.Background(), &appcfg.Config{StorageMode: appcfg.StorageModePostgres}, nil)
	if err == nil {
		t.Fatal("expected error when postgres is forced without a database URL")
	}
}
