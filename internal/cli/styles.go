// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

// Line-mode output styles. lipgloss drops the colors when stdout is not a
// terminal, so piped output stays plain.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Indigo).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	citationStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// statusLine renders a status view as a colored dot and its text.
func statusLine(v model.StatusView) string {
	color := styles.Amber
	switch v.Status {
	case model.StatusSuccess:
		color = styles.Emerald
	case model.StatusError:
		color = styles.Rose
	}
	return lipgloss.NewStyle().Foreground(color).Render(styles.StatusDot) + " " + v.Text
}
