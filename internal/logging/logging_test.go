package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestInit_WithoutConsentDiscards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := Init(Config{Level: "info", Path: path, Consent: false}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	Logger.Info().Msg("should vanish")
	if got := readLog(t, path); got != "" {
		t.Fatalf("log written without consent: %q", got)
	}
}

func TestSetConsent_TakesEffectWithoutRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := Init(Config{Level: "info", Path: path, Consent: true}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// Component loggers are built once at startup; a later consent change
	// must still reach them.
	child := WithComponent("api")
	child.Info().Msg("first")
	if got := readLog(t, path); !strings.Contains(got, "first") {
		t.Fatalf("consented write missing from log: %q", got)
	}

	if err := SetConsent(false); err != nil {
		t.Fatalf("SetConsent(false): %v", err)
	}
	child.Info().Msg("second")
	if got := readLog(t, path); strings.Contains(got, "second") {
		t.Fatal("write reached the log after consent was withdrawn")
	}

	if err := SetConsent(true); err != nil {
		t.Fatalf("SetConsent(true): %v", err)
	}
	child.Info().Msg("third")
	if got := readLog(t, path); !strings.Contains(got, "third") {
		t.Fatalf("log not re-enabled after consent returned: %q", got)
	}
}
