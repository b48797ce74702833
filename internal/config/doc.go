// Package config loads the HiCrew client configuration file.
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/hicrew/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults per field
//
// # Configuration Fields
//
//   - api_base_url: base URL of the HiCrew REST API
//   - vatsim_url:   VATSIM v3 data feed endpoint (live traffic)
//   - ivao_url:     IVAO Whazzup v2 endpoint (live traffic)
//   - poll_seconds: traffic feed refresh cadence (default 30)
//   - log_path:     application log file
//   - log_level:    zerolog level name (default "info")
//
// A malformed TOML file is a hard error; a missing file is not. The traffic
// feed URLs are overridable mainly so tests can point them at local servers.
package config
