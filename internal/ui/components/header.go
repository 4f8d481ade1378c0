// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
	"github.com/jeranaias/jarvis-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar. The right side shows the backend status.
type Header struct {
	Title  string
	Status model.StatusView
	Width  int
	theme  *styles.Theme
}

// NewHeader creates a header in the loading state.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:  "Jarvis",
		Status: model.LoadingStatus(),
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetStatus updates the status indicator.
func (h *Header) SetStatus(v model.StatusView) {
	h.Status = v
}

// SetTheme swaps the theme.
func (h *Header) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// StatusIndicator renders the colored dot and status text.
func (h *Header) StatusIndicator() string {
	return h.indicator(h.Status.Text)
}

func (h *Header) indicator(text string) string {
	style := h.theme.StatusLoading
	switch h.Status.Status {
	case model.StatusSuccess:
		style = h.theme.StatusSuccess
	case model.StatusError:
		style = h.theme.StatusError
	}
	return style.Render(styles.StatusDot + " " + text)
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 30 {
		width = 30
	}
	inner := width - 2

	title := h.theme.HeaderTitle.Render(h.Title)
	titleWidth := lipgloss.Width(title)

	statusText := h.Status.Text
	if room := inner - titleWidth - 4; util.StringWidth(statusText) > room {
		statusText = util.TruncateWidth(statusText, room)
	}
	status := h.indicator(statusText)

	gap := inner - titleWidth - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	line := title + lipgloss.NewStyle().Width(gap).Render("") + status

	return h.theme.Header.Width(width).Render(line)
}
