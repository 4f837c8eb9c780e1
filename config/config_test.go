package config

import "testing"

func TestLoadRequiresPGURL(t *testing.T) {
	t.Setenv("PG_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when PG_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PG_URL", "postgres://localhost:5432/sp500watch")
	t.Setenv("PORT", "")
	t.Setenv("SOURCE_URL", "")
	t.Setenv("REFRESH_CRON", "")
	t.Setenv("FINANCIALS_CRON", "")
	t.Setenv("RUN_ON_START", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.RefreshCron != "" || cfg.FinancialsCron != "" {
		t.Errorf("expected cron specs to default to disabled, got %q / %q", cfg.RefreshCron, cfg.FinancialsCron)
	}
	if cfg.RunOnStart {
		t.Error("expected RunOnStart to default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PG_URL", "postgres://localhost:5432/sp500watch")
	t.Setenv("PORT", "9090")
	t.Setenv("SOURCE_URL", "http://localhost:8081/roster")
	t.Setenv("REFRESH_CRON", "0 6 * * *")
	t.Setenv("RUN_ON_START", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.SourceURL != "http://localhost:8081/roster" {
		t.Errorf("unexpected source URL %q", cfg.SourceURL)
	}
	if cfg.RefreshCron != "0 6 * * *" {
		t.Errorf("unexpected refresh cron %q", cfg.RefreshCron)
	}
	if !cfg.RunOnStart {
		t.Error("expected RunOnStart true")
	}
}
