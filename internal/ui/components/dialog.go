// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// =============================================================================
// ERROR DIALOG
// =============================================================================

// ErrorDialog is a modal overlay that blocks input until dismissed.
type ErrorDialog struct {
	Title   string
	Message string
	visible bool
}

// DefaultDialogTitle is used when Show is given no title.
const DefaultDialogTitle = "Error"

// Show opens the dialog.
func (d *ErrorDialog) Show(title, message string) {
	if title == "" {
		title = DefaultDialogTitle
	}
	d.Title = title
	d.Message = message
	d.visible = true
}

// Hide closes the dialog.
func (d *ErrorDialog) Hide() {
	d.visible = false
}

// Visible reports whether the dialog is open.
func (d ErrorDialog) Visible() bool {
	return d.visible
}

// View renders the dialog centered in width x height, or "" when hidden.
func (d ErrorDialog) View(theme *styles.Theme, width, height int) string {
	if !d.visible {
		return ""
	}

	boxWidth := 60
	if width > 0 && width-4 < boxWidth {
		boxWidth = width - 4
	}
	if boxWidth < 24 {
		boxWidth = 24
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.DialogTitle.Render(styles.StatusIndicators.Error+" "+d.Title),
		theme.DialogText.Width(boxWidth-6).Render(d.Message),
		theme.DialogHint.Render("Press enter or esc to close"),
	)
	box := theme.DialogBox.Width(boxWidth).Render(content)

	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
