package config

import (
	"os"
	"reflect"
	"testing"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, "PORT", "APP_MODE", "STORE_BACKEND", "CORS_ORIGINS", "METRICS_ENABLED", "SHUTDOWN_TIMEOUT_SEC")

	cfg := LoadConfig()

	if cfg.AppPort != "3000" {
		t.Fatalf("AppPort = %q, want 3000", cfg.AppPort)
	}
	if cfg.StoreBackend != StoreMemory {
		t.Fatalf("StoreBackend = %q", cfg.StoreBackend)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
		t.Fatalf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if !cfg.MetricsEnabled {
		t.Fatal("MetricsEnabled should default to true")
	}
	if cfg.ShutdownTimeout != 5 {
		t.Fatalf("ShutdownTimeout = %d, want 5", cfg.ShutdownTimeout)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := LoadConfig()

	if cfg.AppPort != "4000" {
		t.Errorf("AppPort = %q, want 4000", cfg.AppPort)
	}
	if cfg.StoreBackend != StoreRedis {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, StoreRedis)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled should be false")
	}
}

func TestGetEnvAsIntInvalid(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	if got := getEnvAsInt("SOME_INT", 7); got != 7 {
		t.Fatalf("getEnvAsInt = %d, want 7", got)
	}
}
