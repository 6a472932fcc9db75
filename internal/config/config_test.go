package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "finsim")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	withTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Language != "en" {
		t.Fatalf("default language = %q, want en", cfg.General.Language)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Fatalf("default theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	withTempConfigDir(t)

	want := DefaultConfig()
	want.General.Language = "uz"
	want.General.CurrencyLabel = "so'm"
	want.Advisor.APIURL = "https://advisor.example/api/financial-advisor"
	want.Appearance.Theme = "tokyo-night"

	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	dir := withTempConfigDir(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [toml"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("Load of malformed config succeeded, want error")
	}
}

func TestGetAdvisorKeyEnvOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Advisor.APIKey = "from-config"

	t.Setenv("FINSIM_ADVISOR_KEY", "")
	if got := GetAdvisorKey(cfg); got != "from-config" {
		t.Fatalf("key = %q, want config value", got)
	}

	t.Setenv("FINSIM_ADVISOR_KEY", "from-env")
	if got := GetAdvisorKey(cfg); got != "from-env" {
		t.Fatalf("key = %q, want env override", got)
	}
}
