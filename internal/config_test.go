package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/contacthub/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestStoreConfig(t *testing.T) {
	cfg := StoreConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty driver should default to memory: %v", err)
	}
	if cfg.Driver != StoreMemory {
		t.Errorf("driver = %q", cfg.Driver)
	}

	cfg = StoreConfig{Driver: "postgres"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown driver should fail")
	}

	cfg = StoreConfig{Driver: StoreSQLite}
	if err := cfg.Validate(); err == nil {
		t.Error("sqlite without path should fail")
	}
}

func TestLatencyConfig(t *testing.T) {
	cfg := LatencyConfig{Min: 200 * time.Millisecond, Max: 100 * time.Millisecond}
	if err := cfg.Validate(); err == nil {
		t.Error("max < min should fail")
	}
	cfg = LatencyConfig{Min: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("negative latency should fail")
	}
}

func TestRepositoryConfig(t *testing.T) {
	cfg := RepositoryConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.ListFailure != "error" {
		t.Errorf("list_failure = %q, want error", cfg.ListFailure)
	}
	cfg = RepositoryConfig{ListFailure: "ignore"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown list_failure should fail")
	}
}

func TestNotifyConfig(t *testing.T) {
	cfg := NotifyConfig{Enabled: true}
	if err := cfg.Validate(); err == nil {
		t.Error("enabled without url should fail")
	}

	cfg = NotifyConfig{Enabled: true, URL: "not a url"}
	if err := cfg.Validate(); err == nil {
		t.Error("malformed url should fail")
	}

	cfg = NotifyConfig{Enabled: true, URL: "https://functions.example.com"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid notify config rejected: %v", err)
	}
	if cfg.Function != "send-contact-update-email" || cfg.Timeout != 10*time.Second {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	if err := (&NotifyConfig{}).Validate(); err != nil {
		t.Errorf("disabled notify should pass: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("CONTACTHUB_TEST_TOKEN", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `app:
  log_level: debug
  http:
    port: 9090
store:
  driver: memory
  latency:
    min: 10ms
    max: 50ms
repository:
  list_failure: empty
notify:
  enabled: true
  url: https://functions.example.com
  timeout: 3s
auth:
  mode: token
  token: ${CONTACTHUB_TEST_TOKEN}
photos:
  path: ./photos
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := config.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug || cfg.App.HTTP.Port != 9090 {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Store.Latency.Max != 50*time.Millisecond {
		t.Errorf("latency = %+v", cfg.Store.Latency)
	}
	if cfg.Notify.Timeout != 3*time.Second || cfg.Notify.Function != "send-contact-update-email" {
		t.Errorf("notify = %+v", cfg.Notify)
	}
	if cfg.Auth.Token != "s3cret" {
		t.Errorf("token = %q, want env expansion", cfg.Auth.Token)
	}
	if cfg.Repository.ListFailure != "empty" {
		t.Errorf("list_failure = %q", cfg.Repository.ListFailure)
	}
}
