package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KATCH_CONFIG", "")
	t.Setenv("PORT", "")
	t.Setenv("TMDB_CACHE_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("port = %d, want 8080", cfg.ServerPort)
	}
	if cfg.TMDBCacheTTL != time.Hour {
		t.Errorf("cache ttl = %v, want 1h", cfg.TMDBCacheTTL)
	}
	if cfg.DefaultLang != "fr" {
		t.Errorf("default lang = %q, want fr", cfg.DefaultLang)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "katch.yaml")
	content := "port: 9000\ntmdb_api_key: from-file\ntmdb_cache_ttl: 10m\noidc:\n  provider_url: https://id.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("KATCH_CONFIG", path)
	t.Setenv("TMDB_API_KEY", "from-env")
	t.Setenv("PORT", "")
	t.Setenv("TMDB_CACHE_TTL", "")
	t.Setenv("OIDC_PROVIDER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerPort != 9000 {
		t.Errorf("port = %d, want 9000", cfg.ServerPort)
	}
	if cfg.TMDBAPIKey != "from-env" {
		t.Errorf("api key = %q, want env override", cfg.TMDBAPIKey)
	}
	if cfg.TMDBCacheTTL != 10*time.Minute {
		t.Errorf("cache ttl = %v, want 10m", cfg.TMDBCacheTTL)
	}
	if cfg.OIDC.ProviderURL != "https://id.example.com" {
		t.Errorf("provider = %q", cfg.OIDC.ProviderURL)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if err := LoadFile(filepath.Join(t.TempDir(), "nope.json"), Default()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
