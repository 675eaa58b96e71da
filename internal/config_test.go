package internal

import (
	"strings"
	"testing"
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
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestStorageConfig_EmptyDriverDefaultsFS(t *testing.T) {
	cfg := StorageConfig{Driver: "", Path: "./data"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty driver should default to fs: %v", err)
	}
	if cfg.Driver != StorageDriverFS {
		t.Errorf("driver = %q, want %q", cfg.Driver, StorageDriverFS)
	}
}

func TestStorageConfig_InvalidDriver(t *testing.T) {
	cfg := StorageConfig{Driver: "redis", Path: "./data"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown driver should fail validation")
	}
}

func TestStorageConfig_MissingPath(t *testing.T) {
	cfg := StorageConfig{Driver: StorageDriverSQLite}
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing path should fail validation")
	}
}

func TestPlannerConfig_HorizonRequired(t *testing.T) {
	cfg := PlannerConfig{HorizonDays: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero horizon should fail validation")
	}
	cfg.HorizonDays = 365
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default horizon should pass: %v", err)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
