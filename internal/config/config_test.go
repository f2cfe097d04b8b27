package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("expected default run mode longpoll, got %q", cfg.Telegram.RunMode)
	}
	if cfg.Storage.Driver != StorageFile {
		t.Errorf("expected default storage driver file, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Path != "data/catalog.json" {
		t.Errorf("expected default storage path, got %q", cfg.Storage.Path)
	}
	if len(cfg.Shop.Volumes) != len(DefaultVolumes) {
		t.Errorf("expected default volumes, got %v", cfg.Shop.Volumes)
	}
}

func TestNormalizeMissingToken(t *testing.T) {
	cfg := &Config{}
	err := Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("alias not normalized: %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeInvalidRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for invalid run mode")
	}
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
}

func TestNormalizeInvalidStorageDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = "etcd"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for invalid storage driver")
	}
}

func TestNormalizePostgresRequiresHost(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = StoragePostgres
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for postgres driver without host")
	}
	cfg.Storage.Database = DatabaseConfig{Host: "localhost", Port: "5432", Name: "beertime"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Storage.Database.MaxConnections != 4 {
		t.Errorf("expected default max connections, got %d", cfg.Storage.Database.MaxConnections)
	}
}

func TestNormalizeVolumesTrimmed(t *testing.T) {
	cfg := validConfig()
	cfg.Shop.Volumes = []string{" 1л ", "", "2л"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(cfg.Shop.Volumes) != 2 || cfg.Shop.Volumes[0] != "1л" || cfg.Shop.Volumes[1] != "2л" {
		t.Errorf("unexpected volumes: %v", cfg.Shop.Volumes)
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"Callback", "message"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != "callback" {
		t.Errorf("exclusion not lowercased: %v", cfg.RateLimit.ExcludeUpdates)
	}
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unsupported exclusion")
	}
}
