// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/ui/components"
	"github.com/jeranaias/jarvis-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen. The error dialog is modal and replaces
// everything else while open.
func (m Model) View() string {
	if m.dialog.Visible() {
		return m.dialog.View(m.theme, m.width, m.height)
	}

	sections := []string{m.header.View(), m.renderBody()}
	if m.toasts.HasToasts() {
		sections = append(sections, components.RenderToastStack(m.toasts.Toasts(), m.width))
	}
	sections = append(sections, m.renderInput(), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderBody renders the area between the header and the input.
func (m Model) renderBody() string {
	height := m.viewport.Height
	switch {
	case m.showHelp:
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, m.renderHelp())
	case m.showExamples:
		panel := components.ExamplePanel(m.theme, m.examples, m.exampleSpinner, m.width-4)
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, panel)
	case m.transcript.IsEmpty():
		return components.Welcome(m.theme, m.examples, m.exampleSpinner, m.width, height)
	default:
		return m.viewport.View()
	}
}

// renderInput renders the input box, or a disabled placeholder while a
// message is in flight.
func (m Model) renderInput() string {
	box := m.theme.InputContainer.Width(m.width)
	if m.phase != PhaseIdle {
		waiting := m.theme.InputDisabled.Height(m.input.Height()).Render("  Waiting for Jarvis...")
		return box.Render(waiting)
	}
	return box.Render(m.input.View())
}

// renderFooter renders the one-line shortcut bar.
func (m Model) renderFooter() string {
	bindings := m.keys.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	line := strings.Join(parts, "  ")
	if m.width > 0 {
		line = util.TruncateWidth(line, m.width-2)
	}
	return m.theme.Footer.Render(line)
}

// renderHelp renders the key and command reference.
func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.theme.HeaderTitle.Render("Keys"))
	sb.WriteString("\n\n")
	sb.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	sb.WriteString("\n\n")
	sb.WriteString(m.theme.HeaderTitle.Render("Commands"))
	sb.WriteString("\n\n")

	width := 0
	for _, c := range Commands {
		if w := util.StringWidth(c.Usage); w > width {
			width = w
		}
	}
	for i, c := range Commands {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.theme.ShortcutKey.Render(util.PadRight(c.Usage, width)))
		sb.WriteString("  ")
		sb.WriteString(m.theme.ShortcutDesc.Render(c.Summary))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.theme.Timestamp.Render("Press f1 or esc to close"))
	return m.theme.HelpBox.Render(sb.String())
}
