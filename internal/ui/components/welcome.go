// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
	"github.com/jeranaias/jarvis-tui/internal/util"
)

// =============================================================================
// EXAMPLE LIST
// =============================================================================

// ExampleList holds the example-question buttons. It is either loading or
// holds the result of the last load; focus is -1 when no button is focused.
type ExampleList struct {
	set     model.ExampleSet
	loading bool
	focus   int
}

// NewExampleList creates a list in the loading state.
func NewExampleList() ExampleList {
	return ExampleList{loading: true, focus: -1}
}

// SetLoading clears the buttons and shows the loading spinner.
func (l *ExampleList) SetLoading() {
	l.set = model.ExampleSet{}
	l.loading = true
	l.focus = -1
}

// SetExamples replaces the buttons with a loaded or fallback set.
func (l *ExampleList) SetExamples(set model.ExampleSet) {
	l.set = set
	l.loading = false
	l.focus = -1
}

// Loading reports whether a load is pending.
func (l ExampleList) Loading() bool {
	return l.loading
}

// Set returns the current example set.
func (l ExampleList) Set() model.ExampleSet {
	return l.set
}

// Len returns the number of buttons.
func (l ExampleList) Len() int {
	return l.set.Len()
}

// FocusNext moves focus to the next button, wrapping around. It returns
// false when there are no buttons.
func (l *ExampleList) FocusNext() bool {
	n := l.Len()
	if n == 0 {
		return false
	}
	l.focus = (l.focus + 1) % n
	return true
}

// FocusPrev moves focus to the previous button, wrapping around.
func (l *ExampleList) FocusPrev() bool {
	n := l.Len()
	if n == 0 {
		return false
	}
	if l.focus <= 0 {
		l.focus = n - 1
	} else {
		l.focus--
	}
	return true
}

// Blur removes focus.
func (l *ExampleList) Blur() {
	l.focus = -1
}

// Focused returns the focused question.
func (l ExampleList) Focused() (string, bool) {
	if l.focus < 0 {
		return "", false
	}
	return l.set.At(l.focus + 1)
}

// Select returns the n-th question, 1-based as shown on the buttons.
func (l ExampleList) Select(n int) (string, bool) {
	if l.loading {
		return "", false
	}
	return l.set.At(n)
}

// Buttons renders one button per question.
func (l ExampleList) Buttons(theme *styles.Theme, width int) []string {
	maxText := width - 10
	if maxText < 10 {
		maxText = 10
	}
	buttons := make([]string, 0, l.Len())
	for i, q := range l.set.Questions {
		style := theme.ExampleButton
		if i == l.focus {
			style = theme.ExampleFocused
		}
		label := theme.ExampleNumber.Render(fmt.Sprintf("%d", i+1)) + " " + util.TruncateWidth(util.SingleLine(q), maxText)
		buttons = append(buttons, style.Render(label))
	}
	return buttons
}

// View renders the buttons stacked, or the spinner while loading.
func (l ExampleList) View(theme *styles.Theme, spinner Spinner, width int) string {
	if l.loading {
		return spinner.View(theme)
	}
	return lipgloss.JoinVertical(lipgloss.Left, l.Buttons(theme, width)...)
}

// =============================================================================
// WELCOME PLACEHOLDER
// =============================================================================

// WelcomeTitle and WelcomeText make up the placeholder greeting.
const (
	WelcomeTitle = "Welcome to Jarvis"
	WelcomeText  = "Ask me anything about your documents. Try one of these:"
)

// Welcome renders the placeholder shown while the transcript is empty.
func Welcome(theme *styles.Theme, examples ExampleList, spinner Spinner, width, height int) string {
	var sb strings.Builder
	sb.WriteString(theme.WelcomeTitle.Render(WelcomeTitle))
	sb.WriteString("\n")
	sb.WriteString(theme.WelcomeText.Render(WelcomeText))
	sb.WriteString("\n\n")
	sb.WriteString(examples.View(theme, spinner, width))
	if !examples.Loading() && examples.Len() > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(theme.Timestamp.Render("Press 1-9 or tab + enter to ask"))
	}

	content := sb.String()
	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// ExamplePanel renders the /examples overlay.
func ExamplePanel(theme *styles.Theme, examples ExampleList, spinner Spinner, width int) string {
	title := theme.HeaderTitle.Render("Example questions")
	hint := theme.Timestamp.Render("1-9 to ask, tab to move, esc to close")
	body := examples.View(theme, spinner, width-6)
	if !examples.Loading() && examples.Len() == 0 {
		body = theme.WelcomeText.Render("No examples available.")
	}
	return theme.ExamplePanelBox.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}
