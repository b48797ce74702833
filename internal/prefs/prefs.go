// Package prefs handles HiCrew user preferences and stored credentials.
// Preferences live in ~/.config/hicrew/prefs.toml; the session token is kept
// apart in ~/.config/hicrew/credentials.toml with tighter permissions.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences. Each field is independently settable; none
// depends on another.
type Prefs struct {
	Theme            string `toml:"theme"`
	Language         string `toml:"language"`
	TelemetryConsent bool   `toml:"telemetry_consent"`
	ConsentAsked     bool   `toml:"consent_asked"`
}

const (
	defaultPrefsPath       = "~/.config/hicrew/prefs.toml"
	defaultCredentialsPath = "~/.config/hicrew/credentials.toml"
	defaultTheme           = "Nightfox"
	defaultLanguage        = "en"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// DefaultCredentialsPath returns the default credentials file path.
func DefaultCredentialsPath() string {
	return defaultCredentialsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path, defaultPrefsPath)
	if err != nil {
		return defaults(), nil
	}

	prefs := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if strings.TrimSpace(prefs.Language) == "" {
		prefs.Language = defaultLanguage
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path, defaultPrefsPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	return writeTOML(resolved, p, 0o644)
}

// Credentials holds the persisted session token.
type Credentials struct {
	Token string `toml:"token"`
}

// LoadCredentials reads the stored token. A missing or unreadable file simply
// means no saved session.
func LoadCredentials(path string) Credentials {
	resolved, err := resolvePath(path, defaultCredentialsPath)
	if err != nil {
		return Credentials{}
	}
	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return Credentials{}
	}
	var creds Credentials
	if err := toml.Unmarshal(bytes, &creds); err != nil {
		return Credentials{}
	}
	creds.Token = strings.TrimSpace(creds.Token)
	return creds
}

// SaveCredentials persists the session token with owner-only permissions.
func SaveCredentials(path string, c Credentials) error {
	resolved, err := resolvePath(path, defaultCredentialsPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	return writeTOML(resolved, c, 0o600)
}

// ClearCredentials removes the stored token. A missing file is not an error.
func ClearCredentials(path string) error {
	resolved, err := resolvePath(path, defaultCredentialsPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func defaults() Prefs {
	return Prefs{Theme: defaultTheme, Language: defaultLanguage}
}

func writeTOML(path string, v any, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	bytes, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := os.WriteFile(path, bytes, perm); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func resolvePath(path, fallback string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(fallback)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
