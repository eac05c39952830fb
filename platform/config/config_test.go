package config

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/ewaste")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
}

func TestLoadAppliesPolicyDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetPointsPerPickup() != 20 {
		t.Fatalf("expected 20 points per pickup, got %d", cfg.GetPointsPerPickup())
	}
	if cfg.GetMinRedemption() != 60 {
		t.Fatalf("expected minimum redemption 60, got %d", cfg.GetMinRedemption())
	}
	if cfg.GetClassifierMaxImageBytes() != 10*1024*1024 {
		t.Fatalf("expected 10MiB image cap, got %d", cfg.GetClassifierMaxImageBytes())
	}
	if cfg.IsClassifierEnabled() {
		t.Fatal("expected classifier disabled without GEMINI_API_KEY")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadRejectsWildcardCORSWithCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard origin with credentials")
	}
}

func TestLoadRequiresSenderWhenSMTPConfigured(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL_FROM_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when sender address is missing")
	}
}

func TestSplitCSVDropsBlanks(t *testing.T) {
	got := splitCSV(" a , ,b,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}
