package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleTrafficKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.trafficSnap.Flights)
	if count == 0 {
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.trafficRow < count-1 {
			m.trafficRow++
		}
	case "k", "up":
		if m.trafficRow > 0 {
			m.trafficRow--
		}
	case "g", "home":
		m.trafficRow = 0
	case "G", "end":
		m.trafficRow = count - 1
	}

	return m, nil
}

func (m *Model) clampTrafficRow() {
	count := len(m.trafficSnap.Flights)
	if m.trafficRow >= count {
		m.trafficRow = count - 1
	}
	if m.trafficRow < 0 {
		m.trafficRow = 0
	}
}

// renderTraffic renders the live network traffic table.
func (m Model) renderTraffic() string {
	styles := m.theme.Styles()
	snap := m.trafficSnap

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Live traffic"))
	if !snap.LastUpdated.IsZero() {
		b.WriteString("  ")
		b.WriteString(styles.FaintText.Render("updated " + humanizeDuration(time.Since(snap.LastUpdated)) + " ago"))
	}
	b.WriteString("\n\n")

	if snap.IsOffline() {
		b.WriteString(styles.DangerText.Render("Tracking networks unreachable; showing the last known picture."))
		b.WriteString("\n\n")
	}

	if len(snap.Flights) == 0 {
		b.WriteString(styles.MutedText.Render("No flights online."))
		return b.String()
	}

	header := fmt.Sprintf("%-10s %-20s %-12s %-8s %7s %5s  %s",
		"Callsign", "Pilot", "Route", "Type", "Alt", "GS", "Network")
	b.WriteString(styles.MutedText.Bold(true).Render(header))
	b.WriteString("\n")

	for i, f := range snap.Flights {
		route := "-"
		if f.Departure != "" || f.Arrival != "" {
			route = f.Departure + ">" + f.Arrival
		}
		line := fmt.Sprintf("%-10s %-20s %-12s %-8s %7d %5d  ",
			truncate(f.Callsign, 10),
			truncate(f.Pilot, 20),
			truncate(route, 12),
			truncate(f.Aircraft, 8),
			f.Altitude,
			f.Groundspeed,
		)
		if i == m.trafficRow {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString(styles.NetworkStyle(f.Network).Render(f.Network))
		b.WriteString("\n")
	}

	return b.String()
}
