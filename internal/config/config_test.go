package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBaseURLForEnv(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"production", "https://api.dexcom.com"},
		{"production_eu", "https://api.dexcom.eu"},
		{"production_jp", "https://api.dexcom.jp"},
		{"sandbox", "https://sandbox-api.dexcom.com"},
		{"", "https://sandbox-api.dexcom.com"},
	}
	for _, tt := range tests {
		if got := baseURLForEnv(tt.env); got != tt.want {
			t.Errorf("baseURLForEnv(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("DEXCOM_ENV")
	os.Unsetenv("DEXCOM_REDIRECT_URI")
	os.Unsetenv("DEXCOM_API_BASE_URL")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3001 {
		t.Errorf("default port = %d, want 3001", cfg.Port)
	}
	if cfg.Dexcom.BaseURL != "https://sandbox-api.dexcom.com" {
		t.Errorf("base url = %q", cfg.Dexcom.BaseURL)
	}
	if cfg.Dexcom.RedirectURI != "http://localhost:3001/auth/callback" {
		t.Errorf("redirect uri = %q", cfg.Dexcom.RedirectURI)
	}
	if cfg.TokenURL() != "https://sandbox-api.dexcom.com/v2/oauth2/token" {
		t.Errorf("token url = %q", cfg.TokenURL())
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
port: 4000
dexcom:
  client_id: file-id
  env: production
token_storage_path: /tmp/t.enc
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DEXCOM_CLIENT_ID", "env-id")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 4000 {
		t.Errorf("port = %d, want 4000", cfg.Port)
	}
	if cfg.Dexcom.ClientID != "env-id" {
		t.Errorf("client id = %q, env should override file", cfg.Dexcom.ClientID)
	}
	if cfg.Dexcom.BaseURL != "https://api.dexcom.com" {
		t.Errorf("base url = %q", cfg.Dexcom.BaseURL)
	}
}
