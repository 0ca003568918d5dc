package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"trainee_portal_backend/internal/config"
)

func TestLoadConfig_DefaultsAndDurations(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  mode: debug
store:
  type: memory
storage:
  local_path: ` + filepath.Join(dir, "uploads") + `
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Sync.DebounceMillis != time.Second {
		t.Errorf("debounce = %v, want 1s", cfg.Sync.DebounceMillis)
	}
	if cfg.Sync.TiePolicy != "remote" {
		t.Errorf("tie policy = %q, want remote", cfg.Sync.TiePolicy)
	}
	if cfg.Notification.TimeoutSeconds != 15*time.Second {
		t.Errorf("notification timeout = %v", cfg.Notification.TimeoutSeconds)
	}
	if cfg.JWT.ExpireTime != 72*time.Hour {
		t.Errorf("jwt expiry = %v", cfg.JWT.ExpireTime)
	}
	if cfg.Storage.LinkExpiry != time.Hour {
		t.Errorf("link expiry = %v", cfg.Storage.LinkExpiry)
	}
	if cfg.Airtable.SubmissionTable != "ExamSubmissions" {
		t.Errorf("submission table = %q", cfg.Airtable.SubmissionTable)
	}
	if _, err := os.Stat(cfg.Storage.LocalPath); err != nil {
		t.Errorf("local storage dir not created: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Server: config.ServerConfig{Mode: "release"},
			JWT:    config.JWTConfig{Secret: strings.Repeat("s", 32)},
			Store:  config.StoreConfig{Type: "airtable"},
			Airtable: config.AirtableConfig{
				APIKey: "key",
				BaseID: "app123",
			},
			Sync: config.SyncConfig{TiePolicy: "merge"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"short secret in release", func(c *config.Config) { c.JWT.Secret = "short" }, "JWT secret"},
		{"short secret in debug", func(c *config.Config) { c.JWT.Secret = "short"; c.Server.Mode = "debug" }, ""},
		{"airtable without key", func(c *config.Config) { c.Airtable.APIKey = "" }, "api_key"},
		{"unknown store", func(c *config.Config) { c.Store.Type = "sheets" }, "unknown store"},
		{"unknown tie policy", func(c *config.Config) { c.Sync.TiePolicy = "local" }, "tie_policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
