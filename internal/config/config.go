// Package config loads service configuration from an optional YAML file,
// a .env file and environment variables (env wins).
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEncryptionKey is rejected with a warning; operators must set their own.
const DefaultEncryptionKey = "change_this_to_a_random_32_char_key"

// Dexcom holds vendor API settings.
type Dexcom struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURI  string   `yaml:"redirect_uri"`
	Env          string   `yaml:"env"`      // sandbox, production, production_eu, production_jp
	BaseURL      string   `yaml:"base_url"` // overrides Env-derived URL when set
	Scopes       []string `yaml:"scopes"`
}

// Config is the root configuration for both services.
type Config struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	MCPPort            int    `yaml:"mcp_port"`
	OAuthServerURL     string `yaml:"oauth_server_url"`
	Dexcom             Dexcom `yaml:"dexcom"`
	TokenStoragePath   string `yaml:"token_storage_path"`
	TokenEncryptionKey string `yaml:"token_encryption_key"`
	AuditDBPath        string `yaml:"audit_db_path"`
	MockMode           bool   `yaml:"mock_mode"`
}

// AuthURL returns the Dexcom authorization endpoint.
func (c *Config) AuthURL() string { return c.Dexcom.BaseURL + "/v2/oauth2/login" }

// TokenURL returns the Dexcom token endpoint.
func (c *Config) TokenURL() string { return c.Dexcom.BaseURL + "/v2/oauth2/token" }

func baseURLForEnv(env string) string {
	switch env {
	case "production":
		return "https://api.dexcom.com"
	case "production_eu":
		return "https://api.dexcom.eu"
	case "production_jp":
		return "https://api.dexcom.jp"
	default:
		return "https://sandbox-api.dexcom.com"
	}
}

// Load reads the optional YAML file at path (ignored when empty or missing),
// then applies .env and environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	// Missing .env is fine; explicit config errors are not.
	_ = godotenv.Load()

	cfg := &Config{
		Host:               "127.0.0.1",
		Port:               3001,
		MCPPort:            3002,
		OAuthServerURL:     "http://localhost:3001",
		TokenStoragePath:   "./tokens.enc",
		TokenEncryptionKey: "",
		AuditDBPath:        "dexbridge.db",
		Dexcom: Dexcom{
			Env:    "sandbox",
			Scopes: []string{"offline_access"},
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Dexcom.RedirectURI == "" {
		cfg.Dexcom.RedirectURI = fmt.Sprintf("http://localhost:%d/auth/callback", cfg.Port)
	}
	if cfg.Dexcom.BaseURL == "" {
		cfg.Dexcom.BaseURL = baseURLForEnv(cfg.Dexcom.Env)
	}

	warn(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("MCP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.MCPPort = p
		}
	}
	if v := os.Getenv("OAUTH_SERVER_URL"); v != "" {
		cfg.OAuthServerURL = v
	}
	if v := os.Getenv("DEXCOM_CLIENT_ID"); v != "" {
		cfg.Dexcom.ClientID = v
	}
	if v := os.Getenv("DEXCOM_CLIENT_SECRET"); v != "" {
		cfg.Dexcom.ClientSecret = v
	}
	if v := os.Getenv("DEXCOM_REDIRECT_URI"); v != "" {
		cfg.Dexcom.RedirectURI = v
	}
	if v := os.Getenv("DEXCOM_ENV"); v != "" {
		cfg.Dexcom.Env = v
	}
	if v := os.Getenv("DEXCOM_API_BASE_URL"); v != "" {
		cfg.Dexcom.BaseURL = v
	}
	if v := os.Getenv("TOKEN_ENCRYPTION_KEY"); v != "" {
		cfg.TokenEncryptionKey = v
	}
	if v := os.Getenv("TOKEN_STORAGE_PATH"); v != "" {
		cfg.TokenStoragePath = v
	}
	if v := os.Getenv("AUDIT_DB_PATH"); v != "" {
		cfg.AuditDBPath = v
	}
	if v := os.Getenv("MOCK_MODE"); v != "" {
		cfg.MockMode = v == "true" || v == "1"
	}
}

func warn(cfg *Config) {
	if cfg.Dexcom.ClientID == "" || cfg.Dexcom.ClientSecret == "" {
		log.Printf("⚠️  DEXCOM_CLIENT_ID and DEXCOM_CLIENT_SECRET are not set")
	}
	if cfg.TokenEncryptionKey == "" || cfg.TokenEncryptionKey == DefaultEncryptionKey {
		log.Printf("⚠️  TOKEN_ENCRYPTION_KEY not set or using the default value")
	}
}
