package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings the client needs to reach the HiCrew API and
// the public traffic feeds.
type Config struct {
	APIBaseURL  string
	VatsimURL   string
	IvaoURL     string
	PollSeconds int
	LogPath     string
	LogLevel    string
}

const (
	defaultConfigPath  = "~/.config/hicrew/config.toml"
	defaultAPIBaseURL  = "http://127.0.0.1:5000/api"
	defaultVatsimURL   = "https://data.vatsim.net/v3/vatsim-data.json"
	defaultIvaoURL     = "https://api.ivao.aero/v2/tracker/whazzup"
	defaultPollSeconds = 30
	defaultLogPath     = "~/.local/state/hicrew/hicrew.log"
)

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL  string `toml:"api_base_url"`
		VatsimURL   string `toml:"vatsim_url"`
		IvaoURL     string `toml:"ivao_url"`
		PollSeconds int    `toml:"poll_seconds"`
		LogPath     string `toml:"log_path"`
		LogLevel    string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(raw.VatsimURL); v != "" {
		cfg.VatsimURL = v
	}
	if v := strings.TrimSpace(raw.IvaoURL); v != "" {
		cfg.IvaoURL = v
	}
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogPath = mustExpand(cfg.LogPath)

	return cfg, nil
}

func defaults() Config {
	return Config{
		APIBaseURL:  defaultAPIBaseURL,
		VatsimURL:   defaultVatsimURL,
		IvaoURL:     defaultIvaoURL,
		PollSeconds: defaultPollSeconds,
		LogPath:     defaultLogPath,
		LogLevel:    "info",
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
