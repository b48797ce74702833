// Package app wires configuration, session, API client, and the traffic
// poller together and hands the result to the UI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/flywindva/hicrew-tui/internal/api"
	"github.com/flywindva/hicrew-tui/internal/config"
	"github.com/flywindva/hicrew-tui/internal/logging"
	"github.com/flywindva/hicrew-tui/internal/prefs"
	"github.com/flywindva/hicrew-tui/internal/session"
	"github.com/flywindva/hicrew-tui/internal/traffic"
	"github.com/flywindva/hicrew-tui/internal/ui"
)

// Options configure the HiCrew application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/hicrew/prefs.toml
	CredsPath  string // empty uses default ~/.config/hicrew/credentials.toml
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the HiCrew TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	// Logging failures never block startup; the logger degrades to discard.
	_ = logging.Init(logging.Config{
		Level:   cfg.LogLevel,
		Path:    cfg.LogPath,
		Consent: userPrefs.TelemetryConsent,
	})

	sess := session.New()

	credsPath := opts.CredsPath
	if credsPath == "" {
		credsPath = prefs.DefaultCredentialsPath()
	}
	sess.OnInvalidate(func() {
		_ = prefs.ClearCredentials(credsPath)
	})

	client, err := api.NewClient(cfg.APIBaseURL, sess)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	restoreSession(ctx, client, sess, credsPath)

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	store := &traffic.Store{}
	tracker := traffic.NewTracker(
		traffic.NewVatsimFeed(cfg.VatsimURL),
		traffic.NewIvaoFeed(cfg.IvaoURL),
	)
	traffic.StartPoller(ctx, store, tracker, interval)

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Session:   sess,
		Traffic:   store,
		PollTick:  interval,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		CredsPath: credsPath,
		Prefs:     userPrefs,
	})
}

// restoreSession resumes a previously saved session when the stored token is
// still plausibly valid. An expired token is discarded locally; anything the
// server rejects comes back as a 401 and invalidates the session anyway.
func restoreSession(ctx context.Context, client *api.Client, sess *session.Store, credsPath string) {
	creds := prefs.LoadCredentials(credsPath)
	if creds.Token == "" {
		return
	}

	if exp := session.TokenExpiry(creds.Token); !exp.IsZero() && time.Now().After(exp) {
		_ = prefs.ClearCredentials(credsPath)
		return
	}

	sess.Begin(creds.Token, session.PilotSummary{})
	pilot, err := client.Me(ctx)
	if err != nil {
		// A 401 already tore the session down; treat other failures the
		// same so the user sees the login form instead of a half-session.
		sess.Invalidate()
		return
	}
	sess.Begin(creds.Token, pilot)
}
