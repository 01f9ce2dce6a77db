package config

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, envMap(nil), io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DBPath != "popis.sqlite3" || cfg.Addr != ":8080" || cfg.PhotosDir != "photos" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.LogPath != "" {
		t.Errorf("expected no log file, got %q", cfg.LogPath)
	}
	if cfg.UseMinIO() {
		t.Error("expected the disk photo store by default")
	}
	if cfg.MinIO.Bucket != "popis" {
		t.Errorf("expected default bucket popis, got %q", cfg.MinIO.Bucket)
	}
}

func TestParseEnvAndFlags(t *testing.T) {
	env := envMap(map[string]string{
		"POPIS_DB":               "/var/lib/popis.db",
		"POPIS_ADDR":             ":9000",
		"POPIS_MINIO_ENDPOINT":   "minio:9000",
		"POPIS_MINIO_ACCESS_KEY": "key",
		"POPIS_MINIO_SECRET_KEY": "secret",
		"POPIS_MINIO_SSL":        "true",
	})

	cfg, err := Parse([]string{"-a", ":7000", "-minio-bucket", "slike"}, env, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DBPath != "/var/lib/popis.db" {
		t.Errorf("expected db path from env, got %q", cfg.DBPath)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("expected flag to override env, got %q", cfg.Addr)
	}
	if !cfg.UseMinIO() || !cfg.MinIO.UseSSL || cfg.MinIO.Bucket != "slike" {
		t.Errorf("unexpected MinIO config: %+v", cfg.MinIO)
	}
}

func TestParseLongAndShortAliases(t *testing.T) {
	for _, args := range [][]string{{"-d", "a.db"}, {"-db", "a.db"}, {"--db=a.db"}} {
		cfg, err := Parse(args, envMap(nil), io.Discard)
		if err != nil {
			t.Fatalf("Parse(%v): %v", args, err)
		}
		if cfg.DBPath != "a.db" {
			t.Errorf("Parse(%v): expected a.db, got %q", args, cfg.DBPath)
		}
	}
}

func TestParseErrors(t *testing.T) {
	var out strings.Builder
	if _, err := Parse([]string{"-h"}, envMap(nil), &out); !errors.Is(err, ErrHelp) {
		t.Errorf("expected ErrHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "Usage: popis") {
		t.Errorf("expected usage text, got %q", out.String())
	}

	if _, err := Parse([]string{"extra"}, envMap(nil), io.Discard); err == nil {
		t.Error("expected error for a positional argument")
	}
	if _, err := Parse(nil, envMap(map[string]string{"POPIS_MINIO_SSL": "perhaps"}), io.Discard); err == nil {
		t.Error("expected error for an invalid POPIS_MINIO_SSL")
	}
	if _, err := Parse([]string{"-minio-endpoint", "minio:9000"}, envMap(nil), io.Discard); err == nil {
		t.Error("expected error for MinIO without credentials")
	}
}
