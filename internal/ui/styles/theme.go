// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Name is the resolved theme: "dark" or "light".
	Name         string
	IsDark       bool
	ColorProfile termenv.Profile

	// Header
	Header        lipgloss.Style
	HeaderTitle   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style

	// Message bubbles
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	ErrorLabel      lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	Timestamp       lipgloss.Style
	Citation        lipgloss.Style

	// Inline markup
	Bold          lipgloss.Style
	InlineCode    lipgloss.Style
	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style

	// Typing indicator and spinners
	Spinner    lipgloss.Style
	TypingText lipgloss.Style

	// Welcome placeholder and example buttons
	WelcomeTitle    lipgloss.Style
	WelcomeText     lipgloss.Style
	ExampleButton   lipgloss.Style
	ExampleFocused  lipgloss.Style
	ExampleNumber   lipgloss.Style
	ExamplePanelBox lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputDisabled  lipgloss.Style

	// Modal error dialog
	DialogBox   lipgloss.Style
	DialogTitle lipgloss.Style
	DialogText  lipgloss.Style
	DialogHint  lipgloss.Style

	// Footer and help
	Footer       lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	HelpBox      lipgloss.Style
}

// NewTheme creates a theme. mode is "dark", "light" or "auto"; auto asks the
// terminal for its background.
func NewTheme(mode string) *Theme {
	isDark := true
	switch strings.ToLower(mode) {
	case "light":
		isDark = false
	case "auto", "":
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Name:         "dark",
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	if !isDark {
		t.Name = "light"
	}

	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.StatusSuccess = lipgloss.NewStyle().Foreground(Emerald)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose)
	t.StatusLoading = lipgloss.NewStyle().Foreground(Amber)

	// Message bubbles
	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	t.ErrorLabel = lipgloss.NewStyle().Bold(true).Foreground(Rose)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ErrorBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1)

	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

	t.Citation = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Inline markup
	t.Bold = lipgloss.NewStyle().Bold(true)

	t.InlineCode = lipgloss.NewStyle().
		Foreground(Cyan).
		Background(SurfaceDim)

	t.CodeBlock = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(OverlayDim).
		Padding(0, 1).
		Bold(true)

	// Typing indicator
	t.Spinner = lipgloss.NewStyle().Foreground(Indigo)
	t.TypingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Welcome placeholder
	t.WelcomeTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		MarginBottom(1)

	t.WelcomeText = lipgloss.NewStyle().Foreground(TextSecondary)

	t.ExampleButton = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ExampleFocused = t.ExampleButton.
		BorderForeground(Indigo).
		Foreground(Indigo).
		Bold(true)

	t.ExampleNumber = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ExamplePanelBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 1)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)

	t.InputDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Error dialog
	t.DialogBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Background(Surface).
		Padding(1, 2)

	t.DialogTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true).
		MarginBottom(1)

	t.DialogText = lipgloss.NewStyle().Foreground(TextPrimary)

	t.DialogHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		MarginTop(1)

	// Footer
	t.Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.HelpBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 2)
}

// RenderStatus renders a message with a shape indicator for success or
// failure.
func (t *Theme) RenderStatus(success bool, message string) string {
	if success {
		return t.StatusSuccess.Bold(true).Render(StatusIndicators.Success + " " + message)
	}
	return t.StatusError.Bold(true).Render(StatusIndicators.Error + " " + message)
}
