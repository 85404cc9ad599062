package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
payment:
  merchant_name: TestMerchant
  premium_price: 75000
  timeout: 20s
google:
  client_id: client-123.apps.googleusercontent.com
ai:
  model: gemini-1.5-pro
auth:
  jwt_access_ttl: 30m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Payment.MerchantName != "TestMerchant" {
		t.Fatalf("unexpected merchant name: %s", cfg.Payment.MerchantName)
	}
	if cfg.Payment.PremiumPrice != 75000 {
		t.Fatalf("unexpected premium price: %d", cfg.Payment.PremiumPrice)
	}
	if cfg.Payment.Timeout.String() != "20s" {
		t.Fatalf("unexpected payment timeout: %s", cfg.Payment.Timeout)
	}
	if cfg.Google.ClientID != "client-123.apps.googleusercontent.com" {
		t.Fatalf("unexpected google client id: %s", cfg.Google.ClientID)
	}
	if cfg.AI.Model != "gemini-1.5-pro" {
		t.Fatalf("unexpected ai model: %s", cfg.AI.Model)
	}
	if cfg.Auth.JWTAccessTTL.String() != "30m0s" {
		t.Fatalf("unexpected access ttl: %s", cfg.Auth.JWTAccessTTL)
	}

	if cfg.Payment.Currency != "IDR" {
		t.Fatalf("payment currency default should stay IDR")
	}
	if cfg.Payment.BaseURL != "https://app.sandbox.midtrans.com" {
		t.Fatalf("payment base url default should stay sandbox")
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr default should stay localhost")
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Payment.PremiumPrice != 50000 {
		t.Fatalf("unexpected default premium price: %d", cfg.Payment.PremiumPrice)
	}
	if cfg.S3.Bucket != "lingohub-media" {
		t.Fatalf("unexpected default bucket: %s", cfg.S3.Bucket)
	}
	if cfg.Auth.RefreshTTL.String() != "720h0m0s" {
		t.Fatalf("unexpected default refresh ttl: %s", cfg.Auth.RefreshTTL)
	}
}

func TestLoadEnvOverridesWinOverYAML(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://env:env@db:5432/env")
	t.Setenv("PAYMENT_PREMIUM_PRICE", "99000")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
postgres:
  dsn: postgres://yaml:yaml@db:5432/yaml
payment:
  premium_price: 10000
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Postgres.DSN != "postgres://env:env@db:5432/env" {
		t.Fatalf("env override must win: %s", cfg.Postgres.DSN)
	}
	if cfg.Payment.PremiumPrice != 99000 {
		t.Fatalf("env override must win: %d", cfg.Payment.PremiumPrice)
	}
}

func TestLoadRejectsMissingPaymentServerKeyInProduction(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "prod")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error when payment.server_key is empty in production")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_USE_SSL",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"REFRESH_TTL",
		"PAYMENT_BASE_URL",
		"PAYMENT_SERVER_KEY",
		"PAYMENT_MERCHANT_NAME",
		"PAYMENT_TIMEOUT",
		"PAYMENT_PREMIUM_PRICE",
		"PAYMENT_CURRENCY",
		"GOOGLE_CLIENT_ID",
		"GOOGLE_TIMEOUT",
		"AI_BASE_URL",
		"AI_API_KEY",
		"AI_MODEL",
		"AI_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}
