package config

import (
	"strings"
	"testing"
)

func baseConfig() *Config {
	return &Config{
		Port:      "8486",
		Env:       "development",
		JWTSecret: "dev-secret-change-in-production",
		DBDriver:  "postgres",
	}
}

func TestValidateDevelopmentDefaults(t *testing.T) {
	t.Parallel()

	if err := baseConfig().Validate(); err != nil {
		t.Fatalf("development defaults must validate: %v", err)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.DBDriver = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown driver to be rejected")
	}
}

func TestValidateProductionRejectsDefaultSecret(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Env = "production"
	cfg.DBPassword = "genuinely-strong-password"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected default secret rejection, got %v", err)
	}
}

func TestValidateProductionRejectsAutologinToken(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Env = "production"
	cfg.JWTSecret = strings.Repeat("s", 40)
	cfg.DBPassword = "genuinely-strong-password"
	cfg.AutologinToken = "backdoor"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "ADMIN_AUTOLOGIN_TOKEN") {
		t.Fatalf("expected autologin token rejection, got %v", err)
	}
}

func TestValidateProductionAcceptsHardenedConfig(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Env = "production"
	cfg.JWTSecret = strings.Repeat("s", 40)
	cfg.DBPassword = "genuinely-strong-password"
	cfg.DBSSLMode = "require"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("hardened production config must validate: %v", err)
	}
}

func TestIsProduction(t *testing.T) {
	t.Parallel()

	for env, want := range map[string]bool{
		"production":  true,
		"prod":        true,
		"development": false,
		"test":        false,
		"":            false,
	} {
		cfg := baseConfig()
		cfg.Env = env
		if got := cfg.IsProduction(); got != want {
			t.Errorf("IsProduction(%q) = %v, want %v", env, got, want)
		}
	}
}
