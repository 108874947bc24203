package config

import "testing"

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:    "123:abc",
			AdminIDs: []int64{42},
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, expected longpoll default", cfg.Telegram.RunMode)
	}
	if cfg.API.Listen != ":8080" {
		t.Fatalf("api.listen = %q, expected :8080 default", cfg.API.Listen)
	}
	if cfg.Storage.Dir != "./static" {
		t.Fatalf("storage.dir = %q, expected ./static default", cfg.Storage.Dir)
	}
	if cfg.Storage.URLPrefix != "/static" {
		t.Fatalf("storage.url_prefix = %q, expected /static default", cfg.Storage.URLPrefix)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRequiresAdmins(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.AdminIDs = nil
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for empty admin list")
	}

	cfg = validConfig()
	cfg.Telegram.AdminIDs = []int64{0}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error when only zero IDs are configured")
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, expected longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeWebhookValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without URL")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{URL: "https://example.com/hook", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizeStoragePrefix(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.URLPrefix = "media/"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Storage.URLPrefix != "/media" {
		t.Fatalf("storage.url_prefix = %q, expected /media", cfg.Storage.URLPrefix)
	}
}

func TestAdminSet(t *testing.T) {
	tc := TelegramConfig{AdminIDs: []int64{1, 0, 2, 1}}
	set := tc.AdminSet()
	if len(set) != 2 {
		t.Fatalf("set size = %d, expected 2", len(set))
	}
	if _, ok := set[0]; ok {
		t.Fatal("zero ID must not be admitted")
	}
}
