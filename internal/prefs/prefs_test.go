package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.Language != defaultLanguage {
		t.Fatalf("Language = %q, want %q", p.Language, defaultLanguage)
	}
	if p.TelemetryConsent {
		t.Fatalf("TelemetryConsent should default to false")
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "hicrew")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"Slate\"\nlanguage = \"es\"\ntelemetry_consent = true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", p.Theme)
	}
	if p.Language != "es" {
		t.Fatalf("Language = %q, want es", p.Language)
	}
	if !p.TelemetryConsent {
		t.Fatalf("TelemetryConsent = false, want true")
	}
}

func TestLoad_CorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = [nope"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")

	want := Prefs{Theme: "Kanagawa", Language: "fr", TelemetryConsent: true, ConsentAsked: true}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestCredentialsLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")

	if got := LoadCredentials(path); got.Token != "" {
		t.Fatalf("LoadCredentials on missing file = %q, want empty", got.Token)
	}

	if err := SaveCredentials(path, Credentials{Token: "abc123"}); err != nil {
		t.Fatalf("SaveCredentials: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("credentials perm = %o, want 600", perm)
	}

	if got := LoadCredentials(path); got.Token != "abc123" {
		t.Fatalf("LoadCredentials = %q, want abc123", got.Token)
	}

	if err := ClearCredentials(path); err != nil {
		t.Fatalf("ClearCredentials: %v", err)
	}
	if got := LoadCredentials(path); got.Token != "" {
		t.Fatalf("token survived ClearCredentials: %q", got.Token)
	}
	// Clearing twice is fine.
	if err := ClearCredentials(path); err != nil {
		t.Fatalf("second ClearCredentials: %v", err)
	}
}
