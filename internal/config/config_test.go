package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("REMOTE_DB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("REMOTE_DB_ACCESS_KEY", "test-access-key")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	os.Setenv("DATA_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Remote.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if !cfg.RemoteConfigured() {
		t.Fatalf("expected remote backend to be configured: %+v", cfg.Remote)
	}
}

func TestRemoteConfiguredRequiresBothValues(t *testing.T) {
	os.Setenv("REMOTE_DB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("REMOTE_DB_ACCESS_KEY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.RemoteConfigured() {
		t.Fatalf("remote should not be configured without an access key")
	}
}
